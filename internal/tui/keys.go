package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Donate      key.Binding
	BuyAuto     key.Binding
	BuyUpgrade  key.Binding
	BuyItem     key.Binding
	Prevent     key.Binding
	Acknowledge key.Binding
	ForceTax    key.Binding
	Hint        key.Binding
	Reset       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap(debug bool) keyMap {
	k := keyMap{
		Donate:      key.NewBinding(key.WithKeys(" ", "d"), key.WithHelp("space/d", "donate")),
		BuyAuto:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "buy auto-clicker")),
		BuyUpgrade:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upgrade click")),
		BuyItem:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "buy item")),
		Prevent:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prevent tax")),
		Acknowledge: key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "close tax")),
		ForceTax:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "force tax")),
		Hint:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ask advisor")),
		Reset:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Help:        key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	k.ForceTax.SetEnabled(debug)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Donate, k.BuyAuto, k.BuyUpgrade, k.BuyItem, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Donate, k.BuyAuto, k.BuyUpgrade, k.BuyItem},
		{k.Prevent, k.Acknowledge, k.ForceTax},
		{k.Hint, k.Reset, k.Help, k.Quit},
	}
}
