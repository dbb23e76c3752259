// Package tui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The client has two surfaces:
//  1. Login : username input with a remember-me toggle
//  2. App   : four views switched with 1-4 (home, favorites, queue, history)
//
// The home view shows the catalogue, the queue and the history side by side.
// [Renderer] implements the orchestrator's view contract by posting messages
// to the running program, so [Model] is only ever mutated on bubbletea's loop.
// Every user action runs as a command that calls the orchestrator and reports
// its error back to the status line.
package tui
