package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hession/chatbot/internal/catalog"
	"github.com/hession/chatbot/internal/config"
	"github.com/hession/chatbot/internal/logger"
	"github.com/hession/chatbot/internal/memory"
	"github.com/hession/chatbot/internal/responder"
)

const Version = "2.0.0"

// Run starts the interactive chat on stdin/stdout
func Run(cfg *config.Config) error {
	cat, err := LoadCatalog(cfg)
	if err != nil {
		return err
	}

	store, mem, err := OpenMemory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	resp := responder.New(cfg.Bot.Name, cat,
		responder.WithName(mem.Name()),
		responder.WithRecorder(store),
	)
	sess := NewSession(resp, store, cfg.Memory.FlushEvery, os.Stdout, WithErrorOutput(os.Stderr))

	printWelcome(os.Stdout, cfg.Bot.Name, mem.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal: the reader may be blocked, so stop the session from here
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received %v, saving memory", sig)
			fmt.Println()
			if err := sess.Stop(); err != nil {
				logger.Error("Flush on signal failed: %v", err)
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			store.Close()
			os.Exit(0)
		case <-ctx.Done():
		}
	}()

	return sess.Run(ctx, NewLineReader(os.Stdin))
}

// LoadCatalog returns the configured custom catalog or the built-in one
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	path := cfg.CatalogPath()
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	logger.Info("Loaded catalog from %s (%d categories)", path, len(cat.Categories()))
	return cat, nil
}

// OpenMemory opens and loads the configured store. A corrupt store is
// logged and replaced by an empty memory.
func OpenMemory(cfg *config.Config) (memory.Store, *memory.Memory, error) {
	store, err := memory.Open(cfg.MemoryBackend(), cfg.MemoryPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize memory store: %w", err)
	}

	mem, err := store.Load()
	if err != nil {
		if !errors.Is(err, memory.ErrCorrupt) {
			store.Close()
			return nil, nil, fmt.Errorf("failed to load memory: %w", err)
		}
		logger.Warn("Starting with empty memory: %v", err)
	}
	logger.Info("Memory loaded from %s: %d exchanges", cfg.MemoryPath(), len(mem.Conversations))

	return store, mem, nil
}

// History prints the stored transcript
func History(cfg *config.Config, limit int, out io.Writer) error {
	store, mem, err := OpenMemory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprint(out, FormatHistory(mem, limit, time.Now()))
	return nil
}

// Forget wipes the remembered name and transcript
func Forget(cfg *config.Config, out io.Writer) error {
	store, mem, err := OpenMemory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n := len(mem.Conversations)
	store.Reset()
	if err := store.Flush(); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}

	logger.Info("Memory reset, %d exchanges removed", n)
	fmt.Fprintf(out, "✅ Forgot %d exchanges and everything I knew about you\n", n)
	return nil
}

// printWelcome prints welcome message
func printWelcome(out io.Writer, botName, userName string) {
	r := lipgloss.NewRenderer(out)
	title := r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	hint := r.NewStyle().Foreground(lipgloss.Color("8"))

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, title.Render(fmt.Sprintf("🤖 %s v%s - Enhanced Chatbot", botName, Version)))
	fmt.Fprintln(out, hint.Render("I can remember your name and our conversations!"))
	if userName != "" {
		fmt.Fprintln(out, hint.Render(fmt.Sprintf("Welcome back, %s!", userName)))
	}
	fmt.Fprintln(out, hint.Render("Type 'quit', 'exit', or 'bye' to end the conversation"))
	fmt.Fprintln(out, rule)
}
