// Command steerlab runs the Goodfire playground: a fixed sequence of
// steering examples executed against the hosted inference API, with
// responses streamed to the terminal and logits/feature artifacts recorded
// per example.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/steerlab/pkg/artifacts"
	"github.com/germanamz/steerlab/pkg/goodfire"
	"github.com/germanamz/steerlab/pkg/playground"
	"github.com/germanamz/steerlab/pkg/runlog"
	"github.com/joho/godotenv"
)

const logPrefix = "steerlab"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: steerlab [flags]\n\nRuns all playground examples in order.\n\nFlags:\n")
		flag.PrintDefaults()
	}

	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	configPath := flag.String("config", "steerlab.yaml", "path to configuration file (defaults apply if missing)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	logDir := flag.String("logs", "", "log directory (overrides config)")
	flag.Parse()

	if err := run(*envFile, *configPath, *outDir, *logDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile, configPath, outDir, logDir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	// Credential check happens before any logging or network activity.
	apiKey := os.Getenv("GOODFIRE_API_KEY")
	if apiKey == "" {
		return errors.New("GOODFIRE_API_KEY is not set; add it to your environment or .env file")
	}

	cfg, err := playground.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if logDir != "" {
		cfg.LogDir = logDir
	}

	log, err := runlog.Open(cfg.LogDir, logPrefix)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	logger := log.Logger()
	logger.Info("starting playground", "log_file", log.Path())

	store := artifacts.NewStore(cfg.OutputDir)
	logger.Info("output directory", "path", store.Dir())

	runner := playground.NewRunner(goodfire.New(cfg.BaseURL, apiKey), store)
	runner.Log = logger
	runner.Debug = log.Debug("goodfire")
	runner.Out = os.Stdout
	runner.TopK = cfg.TopK
	runner.Banner = func(s string) string { return bannerStyle.Render(s) }

	variant := goodfire.NewVariant(cfg.BaseModel)
	logger.Info("created model variant", "model", cfg.BaseModel, "run_id", runner.RunID)

	if err := runner.Run(ctx, variant, playground.Examples()); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Playground completed successfully"))

	return nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
