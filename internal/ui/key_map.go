package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	yes        key.Binding
	no         key.Binding
	search     key.Binding
	district   key.Binding
	university key.Binding
	clear      key.Binding
	create     key.Binding
	reload     key.Binding
	truth      key.Binding
	lie        key.Binding
	edit       key.Binding
	remove     key.Binding
	next       key.Binding
	prev       key.Binding
	cycle      key.Binding
	terms      key.Binding
	submit     key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:         key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		district:   key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d/D", "district")),
		university: key.NewBinding(key.WithKeys("u", "U"), key.WithHelp("u/U", "university")),
		clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		create:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		truth:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "truth")),
		lie:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lie")),
		edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		cycle:      key.NewBinding(key.WithKeys("ctrl+n", "ctrl+p"), key.WithHelp("ctrl+n/p", "pick option")),
		terms:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "accept terms")),
		submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.district, k.university, k.clear},
		{k.create, k.reload, k.truth, k.lie, k.edit, k.remove},
		{k.quit},
	}
}
