package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/fuelvm-go/fuelvm/types"
)

// TxType distinguishes the two transaction kinds a transaction driver
// dispatches, spec.md §4.10 ("Script" runs arbitrary bytecode; "Create"
// deploys a new contract and runs no script of its own).
type TxType int

const (
	TxScript TxType = iota
	TxCreate
)

// Transaction is the minimal set of fields the driver needs out of the
// enclosing (out of scope, host-defined) transaction envelope: script
// bytecode/data for TxScript, deployment code/salt for TxCreate, and the
// scalar fields GTF exposes.
type Transaction struct {
	Type TxType

	Script     []byte
	ScriptData []byte

	ContractCode []byte
	Salt         types.Bytes32

	GasLimit Word
	GasPrice Word
	Maturity Word

	InputsCount    Word
	OutputsCount   Word
	WitnessesCount Word
}

// ScriptResult is the final, consensus-relevant outcome of Transact (spec.md
// §4.10): whether the script (if any) succeeded, how much gas it burned,
// and a ScriptResult receipt appended to the log.
type ScriptResult struct {
	Success    bool
	GasUsed    Word
	Panic      *PanicError
	ContractID types.ContractID // populated for TxCreate
	Receipts   []Receipt
}

// Transact is the transaction driver's single entrypoint (spec.md §4.10):
// dispatch by tx type, run to completion, and finalize a ScriptResult
// receipt. Mirrors the three-stage shape of the teacher's
// StateTransition.TransitionDb: prepare, execute, finalize.
func Transact(storage Storage, params Params, tx Transaction) (ScriptResult, error) {
	logger := log.New("module", "vm.driver")

	switch tx.Type {
	case TxCreate:
		return transactCreate(storage, params, tx, logger)
	case TxScript:
		return transactScript(storage, params, tx, logger)
	default:
		return ScriptResult{}, ErrUnsupportedTxType
	}
}

func transactCreate(storage Storage, params Params, tx Transaction, logger log.Logger) (ScriptResult, error) {
	if uint64(len(tx.ContractCode)) > params.ContractMaxSize {
		return ScriptResult{}, fmt.Errorf("vm: contract code exceeds ContractMaxSize")
	}
	codeRoot := HashCode(tx.ContractCode)
	var stateRoot types.Bytes32 // freshly deployed contracts start with empty state
	id := DeriveContractID(tx.Salt, codeRoot, stateRoot)

	if perr := storage.DeployContract(id, tx.ContractCode); perr != nil {
		logger.Warn("contract deploy rejected", "id", id.Hex(), "reason", perr.Reason)
		return ScriptResult{Success: false, Panic: perr, ContractID: id}, nil
	}
	logger.Info("contract deployed", "id", id.Hex(), "size", len(tx.ContractCode))
	return ScriptResult{Success: true, ContractID: id}, nil
}

func transactScript(storage Storage, params Params, tx Transaction, logger log.Logger) (ScriptResult, error) {
	interp, err := NewInterpreter(storage, params)
	if err != nil {
		return ScriptResult{}, err
	}

	if err := interp.Load(Script, tx.Script, types.ContractID{}, params.BaseAssetID); err != nil {
		return ScriptResult{}, err
	}

	gasLimit := tx.GasLimit
	if gasLimit > params.MaxGasPerTx {
		gasLimit = params.MaxGasPerTx
	}
	interp.SetGas(gasLimit, gasLimit)

	interp.SetTxField(GTFType, Word(tx.Type))
	interp.SetTxField(GTFScriptLength, Word(len(tx.Script)))
	interp.SetTxField(GTFScriptDataLength, Word(len(tx.ScriptData)))
	interp.SetTxField(GTFInputsCount, tx.InputsCount)
	interp.SetTxField(GTFOutputsCount, tx.OutputsCount)
	interp.SetTxField(GTFWitnessesCount, tx.WitnessesCount)
	interp.SetTxField(GTFGasPrice, tx.GasPrice)
	interp.SetTxField(GTFGasLimit, gasLimit)
	interp.SetTxField(GTFMaturity, tx.Maturity)

	perr := interp.Run()
	used := gasLimit - interp.gas.GGAS()

	result := Word(0)
	if perr != nil {
		result = Word(perr.Reason) + 1
		logger.Debug("script reverted", "reason", perr.Reason, "gasUsed", used)
	}
	interp.receipts.Append(Receipt{
		Type:    ReceiptScriptResult,
		GasUsed: used,
		Result:  result,
	})

	return ScriptResult{
		Success:  perr == nil,
		GasUsed:  used,
		Panic:    perr,
		Receipts: interp.Receipts().All(),
	}, nil
}
