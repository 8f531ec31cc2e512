// Package keypad maps terminal input runes to calculator keys.
//
// A Keymap is plain configuration, loadable from YAML:
//
//	version: "1"
//	quit: q
//	keys:
//	  "7": "7"
//	  "x": "×"
//	  "\r": "="
//	  "\x1b": AC
package keypad

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
)

var ErrInvalidKeymap = errors.New("invalid keymap")

// Keymap binds single input runes to keypad labels understood by calcx.ParseKey.
type Keymap struct {
	Version string            `json:"version,omitempty" yaml:"version,omitempty"`
	Quit    string            `json:"quit,omitempty" yaml:"quit,omitempty"`
	Keys    map[string]string `json:"keys" yaml:"keys"`
}

// Default returns the built-in keymap: digits, '.', ',' as decimal, the
// ASCII and keypad operator symbols, '=' and Enter for equals, 'c' and Esc
// for clear, 'q' to quit.
func Default() *Keymap {
	m := &Keymap{
		Version: "1",
		Quit:    "q",
		Keys: map[string]string{
			".":    ".",
			",":    ".",
			"+":    "+",
			"-":    "-",
			"*":    "×",
			"x":    "×",
			"×":    "×",
			"/":    "÷",
			"÷":    "÷",
			"=":    "=",
			"\r":   "=",
			"\n":   "=",
			"c":    "AC",
			"C":    "AC",
			"\x1b": "AC",
		},
	}
	for d := '0'; d <= '9'; d++ {
		m.Keys[string(d)] = string(d)
	}
	return m
}

// Validate checks that every binding is a single rune mapped to a known
// keypad label, and that the quit rune is not also bound.
func (m *Keymap) Validate() error {
	if len(m.Keys) == 0 {
		return fmt.Errorf("%w: no keys bound", ErrInvalidKeymap)
	}
	if m.Quit != "" {
		if utf8.RuneCountInString(m.Quit) != 1 {
			return fmt.Errorf("%w: quit %q must be a single character", ErrInvalidKeymap, m.Quit)
		}
		if _, bound := m.Keys[m.Quit]; bound {
			return fmt.Errorf("%w: quit %q is also bound to a key", ErrInvalidKeymap, m.Quit)
		}
	}

	// Sorted so the first reported error is stable.
	inputs := make([]string, 0, len(m.Keys))
	for in := range m.Keys {
		inputs = append(inputs, in)
	}
	sort.Strings(inputs)
	for _, in := range inputs {
		if utf8.RuneCountInString(in) != 1 {
			return fmt.Errorf("%w: input %q must be a single character", ErrInvalidKeymap, in)
		}
		if _, err := calcx.ParseKey(m.Keys[in]); err != nil {
			return fmt.Errorf("%w: input %q: %w", ErrInvalidKeymap, in, err)
		}
	}
	return nil
}

// Lookup returns the key bound to r.
func (m *Keymap) Lookup(r rune) (calcx.Key, bool) {
	label, ok := m.Keys[string(r)]
	if !ok {
		return calcx.Key{}, false
	}
	k, err := calcx.ParseKey(label)
	if err != nil {
		return calcx.Key{}, false
	}
	return k, true
}

// IsQuit reports whether r ends an interactive session.
func (m *Keymap) IsQuit(r rune) bool {
	return m.Quit != "" && string(r) == m.Quit
}

// Load reads a YAML keymap from fs and validates it. Bindings in the file
// are laid over Default, so a file only needs the keys it changes; an empty
// label removes a default binding.
func Load(fs afero.Fs, path string) (*Keymap, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file Keymap
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}

	m := Default()
	if file.Version != "" {
		m.Version = file.Version
	}
	if file.Quit != "" {
		m.Quit = file.Quit
	}
	for in, label := range file.Keys {
		if label == "" {
			delete(m.Keys, in)
			continue
		}
		m.Keys[in] = label
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
