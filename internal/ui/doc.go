// Package ui provides the terminal front end of the setup and reconfigure
// flows.
//
// # Architecture Overview
//
// The package implements a Bubble Tea program over a Wizard, which is a thin
// adapter around setup.Flow or setup.Reconfigure. The model never calls the
// dining API itself: every step transition runs as a tea.Cmd that returns
// the next setup.Form as a formMsg.
//
//	┌────────────┐  enter / ctrl+r   ┌──────────────┐
//	│   Model    │ ────────────────> │   Wizard     │
//	│  (Update)  │ <──── formMsg ─── │ (setup.Flow) │
//	└────────────┘                   └──────────────┘
//
// # Widgets
//
//   - list.Model for the school, location, mode and period steps, with
//     filtering for long school lists
//   - textinput.Model pairs (start, end) for the windows step
//   - spinner.Model while a step is loading
//   - help.Model footer driven by keyMap
//
// # Themes
//
// Three palettes are built in (Nightfox, Kanagawa, Slate). ctrl+t cycles
// them and the choice is saved through the prefs package.
package ui
