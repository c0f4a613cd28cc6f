package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/inkwell/internal/assistant"
	"github.com/csheth/inkwell/internal/attach"
	"github.com/csheth/inkwell/internal/config"
	"github.com/csheth/inkwell/internal/llm"
	"github.com/csheth/inkwell/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: $INKWELL_CONFIG or the user config dir)")
	provider := flag.String("provider", "", "completion backend: gemini, openai or ollama")
	llmModel := flag.String("llm-model", "", "override the generation model")
	llmEndpoint := flag.String("llm-endpoint", "", "custom backend base URL")
	debounce := flag.Duration("debounce", 0, "quiet period before a suggestion pass (eg. 1500ms)")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logPath := flag.String("log", os.Getenv("INKWELL_LOG"), "append debug logs to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *llmModel != "" {
		cfg.Models.Generate = *llmModel
	}
	if *llmEndpoint != "" {
		cfg.Endpoint.URL = *llmEndpoint
	}
	if *debounce > 0 {
		cfg.Editor.Debounce = config.Duration{Duration: *debounce}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid configuration:", err)
		os.Exit(1)
	}

	closeLog, err := setupLogging(*logPath)
	if err != nil {
		fmt.Println("failed to open log file:", err)
		os.Exit(1)
	}
	defer closeLog()

	client, err := llm.NewFromEnv(llm.Config{
		Provider:      cfg.Provider,
		GenerateModel: cfg.Models.Generate,
		EditModel:     cfg.Models.Edit,
		Endpoint:      cfg.Endpoint.URL,
	})
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			fmt.Println("no API key configured:", err)
		} else {
			fmt.Println("failed to set up the completion backend:", err)
		}
		os.Exit(1)
	}
	client = llm.Paced(client, cfg.Requests.RequestsPerMinute)
	log.Printf("[main] provider=%s debounce=%s", client.Name(), cfg.Editor.Debounce.Duration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []tea.ProgramOption{tea.WithMouseCellMotion(), tea.WithContext(ctx)}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Assistant: assistant.New(client, assistant.Options{
				Timeout:         cfg.Requests.Timeout.Duration,
				MinSuggestWords: cfg.Editor.MinSuggestWords,
			}),
			Loader:   attach.NewLoader(nil),
			Debounce: cfg.Editor.Debounce.Duration,
			Context:  ctx,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

// setupLogging routes the standard logger to path, or discards it so log
// lines never corrupt the terminal UI.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "inkwell")
	if err != nil {
		return nil, err
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("[main] session started %s", time.Now().Format(time.RFC3339))
	return func() { _ = f.Close() }, nil
}
