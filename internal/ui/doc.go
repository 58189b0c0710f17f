// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist curation:
//  1. [FormView] : Collect the playlist name, genres, and bounds
//  2. [ConfirmView] : Confirm the curation run
//  3. [RunView] : Monitor real-time progress updates
//  4. [ResultView] : Display the created playlist and totals
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the curation engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
//
// For non-interactive sessions, [StdinSource] collects the same parameters
// with plain line-based prompts.
package ui
