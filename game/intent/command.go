package intent

import (
	"fmt"
	"strings"
)

// Command is an abstract input, independent of the device that produced it
type Command int

const (
	Up Command = iota
	Down
	Left
	Right
	Confirm
	Back
)

var commandNames = [...]string{"up", "down", "left", "right", "confirm", "back"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand converts a command name
func ParseCommand(s string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("invalid command %q", s)
}

// MarshalText encodes the command as its name
func (c Command) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a command name
func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Screen is a node of the menu state machine
type Screen int

const (
	MainMenu Screen = iota
	ModeSelect
	Loadout
	Running
	Summary
	Leaderboard
	Settings
)

var screenNames = [...]string{"main_menu", "mode_select", "loadout", "running", "summary", "leaderboard", "settings"}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// MarshalText encodes the screen as its name
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a screen name
func (s *Screen) UnmarshalText(text []byte) error {
	for i, n := range screenNames {
		if n == string(text) {
			*s = Screen(i)
			return nil
		}
	}
	return fmt.Errorf("unknown screen %q", text)
}

// MainMenuItems are the entries of the main menu, in order
var MainMenuItems = []string{"Play", "Leaderboards", "Settings"}

// cycle moves an index by delta with wraparound
func cycle(index, delta, length int) int {
	if length == 0 {
		return 0
	}
	return ((index+delta)%length + length) % length
}
