package input

// KeyCode maps an Ebiten key name to the KeyboardEvent.code string the
// server expects. Ebiten names most keys the same way, except letters,
// which are "A" instead of "KeyA". Aggregate modifiers return "" since the
// Left/Right variants are reported as well.
func KeyCode(name string) string {
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return "Key" + name
	}
	switch name {
	case "Control", "Shift", "Alt", "Meta":
		return ""
	}
	return name
}
