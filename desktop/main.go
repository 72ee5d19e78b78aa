// Command desktop is a windowed Snake Grid client. It attaches to a session
// on a running server, sends one frame per tick with the keys pressed, the
// cursor position and the wheel, and draws the views the server pushes back.
package main

import (
	"context"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

var keyCommands = []struct {
	keys    []ebiten.Key
	command intent.Command
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, intent.Up},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, intent.Down},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, intent.Left},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, intent.Right},
	{[]ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace}, intent.Confirm},
	{[]ebiten.Key{ebiten.KeyEscape, ebiten.KeyBackspace}, intent.Back},
}

// Game implements ebiten.Game for one session
type Game struct {
	client *client
	layout intent.Layout
	last   time.Time
}

func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.last)
	g.last = now

	var commands []string
	for _, binding := range keyCommands {
		for _, key := range binding.keys {
			if inpututil.IsKeyJustPressed(key) {
				commands = append(commands, binding.command.String())
				break
			}
		}
	}

	x, y := ebiten.CursorPosition()
	_, wheelY := ebiten.Wheel()

	req := service.FrameRequest{
		Commands: commands,
		Pointer:  &intent.Vec2{X: float64(x), Y: float64(y)},
		Wheel:    wheelY,
		DtMs:     int(dt.Milliseconds()),
	}
	if err := g.client.sendFrame(context.Background(), req); err != nil {
		log.Warn().Err(err).Msg("frame failed")
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	view, event := g.client.snapshot()
	drawView(screen, g.layout, view, event)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.layout.Width), int(g.layout.Height)
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "desktop",
		Usage: "play a Snake Grid session in a window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Value: "http://localhost:8080", Sources: cli.EnvVars("API_URL")},
			&cli.StringFlag{Name: "session", Usage: "attach to an existing session"},
			&cli.StringFlag{Name: "config", Usage: "configuration for a new session"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := newClient(cmd.String("server"))
			if err != nil {
				return err
			}
			if err := c.open(ctx, cmd.String("session"), cmd.String("config")); err != nil {
				return err
			}
			if err := c.connect(); err != nil {
				log.Warn().Err(err).Msg("websocket unavailable, sending frames over http")
			}

			game := &Game{client: c, layout: intent.DefaultLayout(), last: time.Now()}
			ebiten.SetWindowSize(int(game.layout.Width), int(game.layout.Height))
			ebiten.SetWindowTitle("Snake Grid - " + c.sessionID)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			return ebiten.RunGame(game)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("desktop client failed")
	}
}
