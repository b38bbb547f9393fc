package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/dagaz/internal/analyzer"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/store"
)

// RunMCP serves journal tools over MCP stdio on behalf of the user with
// the given email. Logs go to stderr so stdout stays free for the MCP
// transport.
func RunMCP(ctx context.Context, cfg *Config, userEmail string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	user, err := db.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("resolve mcp user %q: %w", userEmail, err)
	}

	an, err := analyzer.NewMock(cfg.Analyzer.FixturesPath, cfg.Analyzer.Delay())
	if err != nil {
		return fmt.Errorf("init analyzer: %w", err)
	}

	// No broker: MCP has no browser views to invalidate.
	svc := journal.NewService(db, an, nil)

	logger.Info("MCP server starting", slog.String("user", user.Email))
	return mcpserver.New(svc, user.ID).ServeStdio()
}
