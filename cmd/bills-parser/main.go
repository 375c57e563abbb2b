package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/bills-parser/internal/bill"
	"github.com/zombor/bills-parser/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the server fails. Deferred cleanup
// always runs before it returns.
func run(ctx context.Context, args []string) error {
	// A missing .env file is fine, flags and the environment still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	fs := ff.NewFlagSet("bills-parser")
	var (
		host          = fs.StringLong("host", "127.0.0.1", "HTTP listen address")
		port          = fs.IntLong("port", 7071, "HTTP server port")
		extractorType = fs.StringLong("extractor", "sample", "Extractor: 'sample', 'gemini' or 'ollama'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
		debug         = fs.BoolLong("debug", "Enable debug logging")
		_             = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("BILLS_PARSER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	if *debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	extractor, err := newExtractor(*extractorType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
	if err != nil {
		return fmt.Errorf("initializing %s extractor: %w", *extractorType, err)
	}
	defer func() {
		if err := extractor.Close(); err != nil {
			slog.Error("Failed to close extractor", "error", err)
		}
	}()

	service := bill.NewService(extractor)
	server := bill.NewServer(service, bill.NewMetrics(), version)

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(addr)
	}()

	slog.Info("Server started", "address", "http://"+addr, "extractor", *extractorType, "version", version)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
		if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// newExtractor builds the extractor selected on the command line
func newExtractor(kind, geminiKey, geminiModel, ollamaURL, ollamaModel string) (extraction.Extractor, error) {
	switch kind {
	case "sample":
		slog.Info("Using sample extractor, uploads are not read")
		return extraction.NewSample(), nil
	case "gemini":
		if geminiKey == "" {
			geminiKey = os.Getenv("GEMINI_API_KEY")
		}
		if geminiKey == "" {
			return nil, fmt.Errorf("gemini API key is required, set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini extractor...", "model", geminiModel)
		g, err := extraction.NewGemini(geminiKey, geminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "ollama":
		slog.Info("Initializing Ollama extractor...", "url", ollamaURL, "model", ollamaModel)
		o, err := extraction.NewOllama(ollamaURL, ollamaModel)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("unknown extractor %q, expected sample, gemini or ollama", kind)
}
