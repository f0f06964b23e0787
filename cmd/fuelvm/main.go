// Command fuelvm runs a single FuelVM script against an in-memory storage
// backend and prints the resulting receipts.
//
// Usage:
//
//	fuelvm --script script.hex [flags]
//
// Flags:
//
//	--script     Path to a hex-encoded script binary (required)
//	--gas        Gas limit for the script (default: 1000000)
//	--verbosity  Log level 0-5 (default: 3)
//	--version    Print version and exit
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/fuelvm-go/fuelvm/storage"
	"github.com/fuelvm-go/fuelvm/vm"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code, so it can be
// tested in isolation without exercising os.Exit.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(cfg.Verbosity), false)
	log.SetDefault(log.NewLogger(handler))

	scriptBytes, err := loadScript(cfg.ScriptPath)
	if err != nil {
		log.Error("failed to load script", "err", err)
		return 1
	}

	backend := storage.New()
	params := vm.DefaultParams()

	result, err := vm.Transact(backend, params, vm.Transaction{
		Type:     vm.TxScript,
		Script:   scriptBytes,
		GasLimit: cfg.GasLimit,
		GasPrice: 1,
	})
	if err != nil {
		log.Error("transaction driver error", "err", err)
		return 1
	}

	printResult(result)
	if !result.Success {
		return 1
	}
	return 0
}

type cliConfig struct {
	ScriptPath string
	GasLimit   vm.Word
	Verbosity  int
}

func defaultConfig() cliConfig {
	return cliConfig{GasLimit: 1_000_000, Verbosity: 3}
}

func parseFlags(args []string) (cliConfig, bool, int) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, true, 2
	}

	if *showVersion {
		fmt.Printf("fuelvm %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}

	if cfg.ScriptPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --script is required")
		return cfg, true, 2
	}

	return cfg, false, 0
}

func newFlagSet(cfg *cliConfig) *flagSet {
	fs := newCustomFlagSet("fuelvm")
	fs.StringVar(&cfg.ScriptPath, "script", cfg.ScriptPath, "path to a hex-encoded script binary")
	fs.Uint64Var(&cfg.GasLimit, "gas", cfg.GasLimit, "gas limit for the script")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0=silent, 5=trace)")
	return fs
}

// loadScript reads a script file containing hex-encoded instruction words,
// one per line or all on one line, ignoring blank lines and "#" comments.
func loadScript(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sb.WriteString(line)
	}
	clean := strings.TrimPrefix(strings.TrimSpace(sb.String()), "0x")
	code, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decoding script hex: %w", err)
	}
	return code, nil
}

func printResult(result vm.ScriptResult) {
	fmt.Printf("success: %v\n", result.Success)
	fmt.Printf("gas used: %d\n", result.GasUsed)
	if result.Panic != nil {
		fmt.Printf("panic: %s\n", result.Panic.Reason)
	}
	enc, err := json.MarshalIndent(result.Receipts, "", "  ")
	if err != nil {
		fmt.Printf("receipts: <failed to encode: %v>\n", err)
		return
	}
	fmt.Printf("receipts:\n%s\n", enc)
}
