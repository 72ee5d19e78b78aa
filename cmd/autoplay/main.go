// Command autoplay plays runs against a running server with a simple
// path-finding strategy: head for the nearest reachable food, otherwise move
// into the largest open area. It is handy for filling leaderboards, seeding
// the run archive and smoke-testing a deployment.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

// Result is the outcome of one bot run. Finished is false when the bot
// ended the run itself after maxTicks.
type Result struct {
	Mode          engine.GameMode
	Score         uint64
	SurvivalTicks uint64
	FoodEaten     uint64
	Finished      bool
}

// Bot plays runs in one session
type Bot struct {
	client    *Client
	sessionID string
	tick      time.Duration
	maxTicks  int
}

// NewBot creates a session to play in
func NewBot(ctx context.Context, client *Client, configID string, maxTicks int) (*Bot, error) {
	info, err := client.CreateSession(ctx, configID)
	if err != nil {
		return nil, err
	}
	tick := 180 * time.Millisecond
	if info.GameConfig != nil && info.GameConfig.TickMs > 0 {
		tick = time.Duration(info.GameConfig.TickMs) * time.Millisecond
	}
	return &Bot{client: client, sessionID: info.ID, tick: tick, maxTicks: maxTicks}, nil
}

// Play runs one game in mode, one tick per frame, until it ends or maxTicks pass
func (b *Bot) Play(ctx context.Context, mode string, loadout []string) (Result, error) {
	started, err := b.client.StartRun(ctx, b.sessionID, mode, loadout)
	if err != nil {
		return Result{}, err
	}
	if !started.Success {
		return Result{}, fmt.Errorf("run did not start: %s", started.Message)
	}

	view := started.View
	result := Result{}
	for i := 0; i < b.maxTicks && view.Screen == intent.Running; i++ {
		run := view.Run
		result.Mode = run.Mode
		result.Score = run.Score
		result.SurvivalTicks = run.Metrics.SurvivalTicks
		result.FoodEaten = run.Metrics.FoodEaten

		req := service.FrameRequest{DtMs: int(b.tick.Milliseconds())}
		if d, ok := NextDirection(run); ok && d != run.Direction {
			req.Commands = []string{d.String()}
		}
		frame, err := b.client.Frame(ctx, b.sessionID, req)
		if err != nil {
			return result, err
		}
		view = frame.View
	}

	// a run cut short by maxTicks is ended with Back so it is recorded and
	// the session can start the next one
	stopped := view.Screen == intent.Running
	if stopped {
		frame, err := b.client.Frame(ctx, b.sessionID, service.FrameRequest{Commands: []string{intent.Back.String()}})
		if err != nil {
			return result, fmt.Errorf("end run: %w", err)
		}
		view = frame.View
	}

	if view.Screen == intent.Summary && view.Summary != nil {
		s := view.Summary
		return Result{Mode: s.Mode, Score: s.Score, SurvivalTicks: s.SurvivalTicks, FoodEaten: s.FoodEaten, Finished: !stopped}, nil
	}
	return result, nil
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play runs against a Snake Grid server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Sources: cli.EnvVars("API_URL")},
			&cli.StringFlag{Name: "config", Usage: "configuration for the bot's session"},
			&cli.StringFlag{Name: "mode", Value: "practice"},
			&cli.StringSliceFlag{Name: "loadout", Usage: "tool ids for experimental runs"},
			&cli.IntFlag{Name: "runs", Value: 5},
			&cli.IntFlag{Name: "max-ticks", Value: 2000, Usage: "give up on a run after this many ticks"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bot, err := NewBot(ctx, NewClient(cmd.String("api-url")), cmd.String("config"), cmd.Int("max-ticks"))
			if err != nil {
				return err
			}
			log.Info().Str("session", bot.sessionID).Dur("tick", bot.tick).Msg("bot session created")

			var best Result
			for i := 1; i <= cmd.Int("runs"); i++ {
				res, err := bot.Play(ctx, cmd.String("mode"), cmd.StringSlice("loadout"))
				if err != nil {
					return fmt.Errorf("run %d: %w", i, err)
				}
				status := "ended"
				if !res.Finished {
					status = "stopped"
				}
				fmt.Printf("run %d: %s score=%d ticks=%d food=%d (%s)\n", i, res.Mode, res.Score, res.SurvivalTicks, res.FoodEaten, status)
				if res.Score > best.Score {
					best = res
				}
			}
			fmt.Printf("best score: %d\n", best.Score)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}
