// Package intent turns raw input into game actions.
//
// App is a finite state machine over the screens MainMenu, ModeSelect,
// Loadout, Running, Summary, Leaderboard and Settings, driven by six abstract
// commands (Up, Down, Left, Right, Confirm, Back). While Running, a Phase
// records whether the run is Active, paused because the pointer went idle
// (PointerIdlePause), or showing the death trail (Replay).
//
// Pointer samples are interpreted per screen:
//
//   - On menus, hovering a row focuses it and resting on it for the dwell
//     time confirms it once. Resting in the back hotzone fires Back. The
//     wheel moves the cursor on list screens.
//   - In a run, hovering a board cell steers the head toward it; otherwise a
//     large enough pointer movement steers in its direction. A pointer that
//     rests outside the board pauses the run until it moves again or a key
//     is pressed.
//
// Timers are plain accumulators advanced by the frame delta. A frame is
// applied with Frame: keyboard commands first, then the pointer sample,
// then the simulation advance.
package intent
