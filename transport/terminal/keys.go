package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/snakegrid/game/intent"
)

// KeyCommand maps a key press to a game command
func KeyCommand(ev *tcell.EventKey) (intent.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return intent.Up, true
	case tcell.KeyDown:
		return intent.Down, true
	case tcell.KeyLeft:
		return intent.Left, true
	case tcell.KeyRight:
		return intent.Right, true
	case tcell.KeyEnter:
		return intent.Confirm, true
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
		return intent.Back, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return intent.Up, true
		case 's', 'j':
			return intent.Down, true
		case 'a', 'h':
			return intent.Left, true
		case 'd', 'l':
			return intent.Right, true
		case ' ':
			return intent.Confirm, true
		}
	}
	return 0, false
}

// IsQuit reports whether the key closes the terminal client
func IsQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
}
