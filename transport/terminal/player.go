package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

// FrameInterval is how often the terminal samples input and redraws
const FrameInterval = 16 * time.Millisecond

// FrameService is the part of the game service the terminal drives
type FrameService interface {
	Frame(ctx context.Context, sessionID string, req service.FrameRequest) (*service.FrameResult, error)
	GetView(ctx context.Context, sessionID string) (*intent.View, error)
}

// Player turns terminal events into frames for one session and draws the result
type Player struct {
	frames    FrameService
	sessionID string
	renderer  Renderer

	pending []string
	pointer *intent.Vec2
	wheel   float64
	view    *intent.View
}

// NewPlayer creates a terminal player for sessionID
func NewPlayer(frames FrameService, sessionID string, layout intent.Layout) *Player {
	return &Player{
		frames:    frames,
		sessionID: sessionID,
		renderer:  Renderer{Layout: layout, Raster: DefaultRaster()},
	}
}

// View returns the last view received
func (p *Player) View() *intent.View {
	return p.view
}

// HandleEvent buffers one terminal event for the next frame. It returns
// true when the player asked to quit.
func (p *Player) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if IsQuit(ev) {
			return true
		}
		if cmd, ok := KeyCommand(ev); ok {
			p.pending = append(p.pending, cmd.String())
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		pos := p.renderer.Raster.ToPixel(col, row)
		p.pointer = &pos
		buttons := ev.Buttons()
		// positive wheel scrolls up
		if buttons&tcell.WheelUp != 0 {
			p.wheel++
		}
		if buttons&tcell.WheelDown != 0 {
			p.wheel--
		}
	}
	return false
}

// Step sends the buffered input with dt of elapsed time. Once the mouse has
// been seen, its last position is resent every frame like a polled cursor.
func (p *Player) Step(ctx context.Context, dt time.Duration) error {
	req := service.FrameRequest{
		Commands: p.pending,
		Pointer:  p.pointer,
		Wheel:    p.wheel,
		DtMs:     int(dt.Milliseconds()),
	}
	p.pending = nil
	p.wheel = 0

	result, err := p.frames.Frame(ctx, p.sessionID, req)
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	p.view = result.View
	for _, entry := range result.Finished {
		log.Info().Str("session", p.sessionID).Str("mode", entry.Mode.String()).Uint64("score", entry.Score).Msg("run finished")
	}
	return nil
}

// Run drives the session until the player quits or ctx is done
func (p *Player) Run(ctx context.Context, screen tcell.Screen) error {
	view, err := p.frames.GetView(ctx, p.sessionID)
	if err != nil {
		return err
	}
	p.view = view

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				screen.Sync()
				continue
			}
			if p.HandleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			if err := p.Step(ctx, now.Sub(last)); err != nil {
				return err
			}
			last = now
			screen.Clear()
			p.renderer.Draw(screen, p.view)
			screen.Show()
		}
	}
}
