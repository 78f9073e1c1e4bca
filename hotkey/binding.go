package hotkey

import (
	"fmt"
	"slices"
	"strings"
)

// Binding is a parsed shortcut such as Alt+T.
type Binding struct {
	Modifiers []string // normalized, in canonical order
	Key       string   // lower-case key name understood by gohook
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
	"cmd":     "cmd",
	"command": "cmd",
	"super":   "cmd",
	"win":     "cmd",
	"meta":    "cmd",
}

var modifierOrder = []string{"ctrl", "alt", "shift", "cmd"}

// ParseBinding parses strings like "Alt+T" or "ctrl + shift + d". A binding
// needs at least one modifier and exactly one other key.
func ParseBinding(s string) (Binding, error) {
	var b Binding
	if strings.TrimSpace(s) == "" {
		return b, fmt.Errorf("empty hotkey")
	}

	for _, part := range strings.Split(s, "+") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			return Binding{}, fmt.Errorf("hotkey %q: empty key", s)
		}
		if mod, ok := modifierAliases[p]; ok {
			if slices.Contains(b.Modifiers, mod) {
				return Binding{}, fmt.Errorf("hotkey %q: duplicate modifier %s", s, mod)
			}
			b.Modifiers = append(b.Modifiers, mod)
			continue
		}
		if b.Key != "" {
			return Binding{}, fmt.Errorf("hotkey %q: more than one key", s)
		}
		b.Key = p
	}

	if b.Key == "" {
		return Binding{}, fmt.Errorf("hotkey %q: missing key", s)
	}
	if len(b.Modifiers) == 0 {
		return Binding{}, fmt.Errorf("hotkey %q: needs a modifier", s)
	}

	slices.SortFunc(b.Modifiers, func(x, y string) int {
		return slices.Index(modifierOrder, x) - slices.Index(modifierOrder, y)
	})
	return b, nil
}

// Keys returns the key list gohook.Register expects.
func (b Binding) Keys() []string {
	keys := make([]string, 0, len(b.Modifiers)+1)
	keys = append(keys, b.Modifiers...)
	return append(keys, b.Key)
}

// String renders the binding for menus, e.g. "Alt+T".
func (b Binding) String() string {
	parts := make([]string, 0, len(b.Modifiers)+1)
	for _, m := range b.Modifiers {
		parts = append(parts, displayName(m))
	}
	return strings.Join(append(parts, displayName(b.Key)), "+")
}

func displayName(k string) string {
	switch k {
	case "ctrl":
		return "Ctrl"
	case "cmd":
		return "Cmd"
	}
	if len(k) == 1 {
		return strings.ToUpper(k)
	}
	return strings.ToUpper(k[:1]) + k[1:]
}
