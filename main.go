// Command snakegrid runs the Snake Grid game server and its local clients.
//
// Commands:
//
//	serve     HTTP server with the REST API, websocket views and an /mcp endpoint
//	mcp       MCP stdio server; reuses a running API or starts an internal one
//	play      play a session in the terminal
//	validate  check every game configuration in the config directory
//
// Settings come from the environment (and a .env file); flags override them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakegrid/game/config"
	"github.com/wricardo/snakegrid/game/service"
	"github.com/wricardo/snakegrid/game/session"
	"github.com/wricardo/snakegrid/storage/sqlite"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Snake Grid"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(&settings).Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("snakegrid failed")
		stop()
		os.Exit(1)
	}
}

// newApp builds the command tree. Flag defaults come from settings and
// parsed flags are written back before any command runs.
func newApp(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:    "snakegrid",
		Usage:   AppName + " server and clients",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: settings.LogLevel, Usage: "trace, debug, info, warn or error"},
			&cli.StringFlag{Name: "config-dir", Value: settings.ConfigDir, Usage: "directory containing game configurations"},
			&cli.StringFlag{Name: "sessions-dir", Value: settings.SessionsDir, Usage: "directory where sessions are persisted"},
			&cli.StringFlag{Name: "archive", Value: settings.ArchivePath, Usage: "SQLite run archive path (empty disables it)"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			settings.LogLevel = cmd.String("log-level")
			settings.ConfigDir = cmd.String("config-dir")
			settings.SessionsDir = cmd.String("sessions-dir")
			settings.ArchivePath = cmd.String("archive")
			return ctx, setupLogging(settings.LogLevel, os.Stderr)
		},
		Commands: []*cli.Command{
			serveCommand(settings),
			mcpCommand(settings),
			playCommand(settings),
			validateCommand(settings),
		},
	}
}

// setupLogging points the global logger at out with the given level
func setupLogging(level string, out io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	return nil
}

// services is the wired game backend shared by every command
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence *session.FilePersistence
	archive     *sqlite.Store
}

func newServices(ctx context.Context, settings config.Settings) (*services, error) {
	configs, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(settings.SessionsDir, configs)
	if err != nil {
		return nil, fmt.Errorf("session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence)
	if err := sessions.LoadPersistedSessions(); err != nil {
		log.Warn().Err(err).Msg("failed to load persisted sessions")
	}

	s := &services{sessions: sessions, persistence: persistence}

	var opts []service.Option
	if settings.ArchivePath != "" {
		s.archive, err = sqlite.Open(ctx, settings.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("run archive: %w", err)
		}
		opts = append(opts, service.WithArchive(s.archive))
		log.Info().Str("path", settings.ArchivePath).Msg("run archive enabled")
	}

	s.game = service.NewGameService(sessions, configs, opts...)
	return s, nil
}

// Close saves every session and closes the archive
func (s *services) Close() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Warn().Err(err).Msg("failed to save sessions")
	}
	if err := s.archive.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close run archive")
	}
}

// syncWithDisk drops sessions from memory once their files are deleted
func (s *services) syncWithDisk(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneDeleted()
		}
	}
}

func (s *services) pruneDeleted() int {
	pruned := 0
	for _, sess := range s.sessions.List() {
		if s.persistence.Exists(sess.ID) {
			continue
		}
		if err := s.sessions.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Info().Str("session", sess.ID).Msg("pruned session whose file was deleted")
		}
	}
	return pruned
}
