// ABOUTME: Entry point for the console-state demo poller
// ABOUTME: Polls the listing service and renders the grouped queues to the terminal

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"

	"github.com/2389/console-state/internal/chat"
	"github.com/2389/console-state/internal/client"
	"github.com/2389/console-state/internal/config"
	"github.com/2389/console-state/internal/grouping"
	"github.com/2389/console-state/internal/identity"
	"github.com/2389/console-state/internal/refresh"
	"github.com/2389/console-state/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the console config file.
// Priority: CONSOLE_CONFIG env var > XDG_CONFIG_HOME/console-state/console.yaml > ~/.config/console-state/console.yaml
func getConfigPath() string {
	if envPath := os.Getenv("CONSOLE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "console.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "console-state", "console.yaml")
}

// newLogger builds the slog logger from the logging config: JSON for
// production-like setups, tinted text for terminals.
func newLogger(cfg config.Logging) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func main() {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)
	logger.Info("console-state starting", "version", version, "service", cfg.Service.BaseURL)

	var op identity.Identity
	if cfg.Session.Token != "" {
		op, err = identity.FromSessionToken(cfg.Session.Token, []byte(cfg.Session.Secret))
		if err != nil {
			fmt.Fprintf(os.Stderr, "session error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("operator session loaded", "operator", op.IDCode, "admin", op.IsAdministrator())
	} else {
		logger.Warn("no session token configured, running without operator identity")
	}

	grouper := grouping.New(cfg.Chat.Locale, cfg.Chat.BotID)
	st := store.New(grouper, logger)
	st.SetOperator(op)

	listing := client.New(cfg.Service.BaseURL, cfg.Service.Timeout, logger)
	controller := refresh.NewController(st, listing, cfg.Refresh.ReplaceDelay, logger)
	defer controller.Close()
	st.SetRefresher(controller)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Operators start in team mode here so the demo shows the shared
	// queue; the toggle also performs the first refresh of both lists.
	if err := st.SetTeamMode(ctx, true); err != nil {
		logger.Warn("initial refresh failed", "error", err)
	}

	poller := refresh.NewPoller(controller, cfg.Refresh.PollInterval, logger)
	go poller.Run(ctx)

	interval := cfg.Refresh.PollInterval
	if interval <= 0 {
		interval = refresh.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			render(st)
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		}
	}
}

// render prints the current grouped views to stdout.
func render(st *store.Store) {
	heading := color.New(color.FgCyan, color.Bold)
	group := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	active := st.GroupedActiveChats()
	pending := st.GroupedPendingChats()

	heading.Printf("== active (%d mine, %d unanswered, %d forwarded) ==\n",
		len(active.MyChats), st.UnansweredChatsLength(), st.ForwardedChatsLength())
	printChats(active.MyChats)
	printGroups(group, active.OtherChats)

	heading.Printf("== pending (%d new, %d in process) ==\n",
		len(pending.NewChats), len(pending.InProcessChats))
	printChats(pending.MyChats)
	printGroups(group, pending.OtherChats)

	dim.Printf("-- %s --\n", time.Now().Format(time.TimeOnly))
}

func printChats(chats []chat.Chat) {
	for _, c := range chats {
		fmt.Printf("  %s  %s  %s\n", c.ID, c.Status, c.Created)
	}
}

func printGroups(c *color.Color, groups []chat.Group) {
	for _, g := range groups {
		c.Printf("  [%s] %d chat(s)\n", g.Name, len(g.Chats))
		printChats(g.Chats)
	}
}
