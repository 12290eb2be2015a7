// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives a [directory.Controller] through four views:
//  1. [ListView] : Browse personas, search by name and narrow by district or university
//  2. [DetailView] : Read a story, see the truth/lie split and vote once per persona
//  3. [FormView] : Create or edit a persona; the form is validated locally before any call
//  4. [ConfirmDeleteView] : Confirm a deletion
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every remote call runs inside a [tea.Cmd] and reports back with one Msg, so the interface never blocks on the network.
// Keys that would start a call are ignored while the controller reports the persona as pending.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
