package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ramonehamilton/pauper-combos/internal/config"
	"github.com/ramonehamilton/pauper-combos/internal/llm"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
	"github.com/ramonehamilton/pauper-combos/internal/version"
)

func main() {
	// Credentials may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command, args := os.Args[1], os.Args[2:]

	var err error
	switch command {
	case "collect":
		err = runCollectCommand(args)
	case "train":
		err = runTrainCommand(args)
	case "discover":
		err = runDiscoverCommand(args)
	case "explore":
		err = runExploreCommand(args)
	case "check":
		err = runCheckCommand(args)
	case "report":
		err = runReportCommand(args)
	case "smoke":
		err = runSmokeCommand(args)
	case "version":
		fmt.Printf("pauper-combos %s\n", version.GetVersion())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Println("Pauper Combo Finder")
	fmt.Println("===================")
	fmt.Println()
	fmt.Println("Usage: pauper-combos <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  collect    - Download Pauper cards and build training data")
	fmt.Println("  train      - Fine-tune the combo model on the training data")
	fmt.Println("  discover   - Search the card pool for new combos")
	fmt.Println("  explore    - Interactive combo explorer")
	fmt.Println("  check      - Check snapshots and generator availability")
	fmt.Println("  report     - Write an HTML report of the card pool")
	fmt.Println("  smoke      - Ask the model a few fixed questions")
	fmt.Println("  version    - Print the version")
	fmt.Println()
	fmt.Println("Common options:")
	fmt.Println("  -config <path>   Configuration file (default: ~/.pauper-combos/config.toml)")
	fmt.Println("  -debug           Enable debug logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pauper-combos collect")
	fmt.Println("  pauper-combos train -resume=false")
	fmt.Println("  pauper-combos discover -triple-budget 50")
	fmt.Println("  pauper-combos explore")
	fmt.Println()
}

// env is the state shared by every command.
type env struct {
	cfg    *config.Config
	store  *storage.Store
	logger *slog.Logger
}

// commonFlags are registered on every command's flag set.
type commonFlags struct {
	configPath *string
	debug      *bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs, &commonFlags{
		configPath: fs.String("config", "", "Configuration file path"),
		debug:      fs.Bool("debug", false, "Enable debug logging"),
	}
}

// load reads and validates the configuration and sets up logging.
func (f *commonFlags) load() (*env, error) {
	cfg, err := config.Load(*f.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	if *f.debug || cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return &env{
		cfg:    cfg,
		store:  storage.NewStore(cfg.Data.Dir),
		logger: logger,
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM so long runs can persist
// partial results before exiting.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newGenerator builds the configured generator. OPENAI_API_KEY and
// OPENAI_BASE_URL are read from the environment for the openai backend.
func (e *env) newGenerator() (llm.Generator, error) {
	cfg, err := e.cfg.LLM(os.Getenv("OPENAI_API_KEY"))
	if err != nil {
		return nil, err
	}
	if cfg.Backend == llm.BackendOpenAI {
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}

	gen, err := llm.New(cfg, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}
