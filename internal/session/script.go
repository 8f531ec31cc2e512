// Package session runs scripted calculator sessions and reports on them.
//
// A script is YAML:
//
//	name: chaining
//	steps:
//	  - press: "6 + 4 +"
//	    expect: "10"
//	  - press: "2 ="
//	    expect: "12"
//
// press takes any sequence calcx.ParseKeys accepts; expect, when present, is
// compared with the display after that step's keys.
package session

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
)

var ErrInvalidScript = errors.New("invalid script")

type Script struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	Press  string `json:"press" yaml:"press"`
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`

	keys []calcx.Key
}

// Keys returns the parsed keys of a validated step.
func (s Step) Keys() []calcx.Key {
	return s.keys
}

// Validate parses every step's keys. A script needs at least one step and
// every step needs at least one key.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	for i := range s.Steps {
		keys, err := calcx.ParseKeys(s.Steps[i].Press)
		if err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrInvalidScript, i+1, err)
		}
		if len(keys) == 0 {
			return fmt.Errorf("%w: step %d presses nothing", ErrInvalidScript, i+1)
		}
		s.Steps[i].keys = keys
	}
	return nil
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a script from fs. An unnamed script takes its file name.
func Load(fs afero.Fs, path string) (*Script, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
