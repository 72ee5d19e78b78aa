package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakegrid/game/config"
	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/transport/terminal"
)

func playCommand(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a session in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "configuration for a new session"},
			&cli.StringFlag{Name: "session", Usage: "resume an existing session"},
			&cli.StringFlag{Name: "log-file", Value: "snakegrid.log", Usage: "log destination while the terminal is in use (empty discards)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logOut, closeLog, err := openLog(cmd.String("log-file"))
			if err != nil {
				return err
			}
			defer closeLog()
			if err := setupLogging(settings.LogLevel, logOut); err != nil {
				return err
			}

			svc, err := newServices(ctx, *settings)
			if err != nil {
				return err
			}
			defer svc.Close()

			sessionID := cmd.String("session")
			if sessionID == "" {
				info, err := svc.game.CreateSession(ctx, cmd.String("config"))
				if err != nil {
					return fmt.Errorf("create session: %w", err)
				}
				sessionID = info.ID
			} else if _, err := svc.game.GetSession(ctx, sessionID); err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("terminal: %w", err)
			}

			player := terminal.NewPlayer(svc.game, sessionID, intent.DefaultLayout())
			err = player.Run(ctx, screen)
			screen.Fini()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "session %s saved; resume with --session %s\n", sessionID, sessionID)
			return nil
		},
	}
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func validateCommand(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check every game configuration in the config directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return validateConfigs(cmd.Root().Writer, settings.ConfigDir)
		},
	}
}

// validateConfigs reports each configuration in dir and fails if any is invalid
func validateConfigs(out io.Writer, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no configurations found in %s", dir)
	}

	failed := 0
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		cfg, err := engine.LoadGameConfig(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%dx%d, %dms tick)\n", name, cfg.BoardWidth, cfg.BoardHeight, cfg.TickMs)
	}

	if failed > 0 {
		log.Warn().Int("invalid", failed).Msg("configuration check failed")
		return fmt.Errorf("%d of %d configurations are invalid", failed, len(paths))
	}
	return nil
}
