package play

import "charm.land/bubbles/v2/key"

type keyMap struct {
	OK        key.Binding
	KO        key.Binding
	Partially key.Binding
	Skip      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		OK: key.NewBinding(
			key.WithKeys("o", "1"),
			key.WithHelp("o", "correct"),
		),
		KO: key.NewBinding(
			key.WithKeys("k", "2"),
			key.WithHelp("k", "wrong"),
		),
		Partially: key.NewBinding(
			key.WithKeys("p", "3"),
			key.WithHelp("p", "partial"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s", "4"),
			key.WithHelp("s", "skip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// setAnswering toggles the answer bindings.
func (k *keyMap) setAnswering(on bool) {
	k.OK.SetEnabled(on)
	k.KO.SetEnabled(on)
	k.Partially.SetEnabled(on)
	k.Skip.SetEnabled(on)
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.OK, k.KO, k.Partially, k.Skip, k.Quit}
}
