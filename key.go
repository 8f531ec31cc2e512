package calcx

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnknownKey is returned when a label does not name a keypad button.
var ErrUnknownKey = errors.New("unknown key")

// KeyKind identifies which keypad button was pressed.
type KeyKind int

const (
	KeyDigit KeyKind = iota
	KeyDecimal
	KeyOperator
	KeyEquals
	KeyClear
)

func (k KeyKind) String() string {
	switch k {
	case KeyDigit:
		return "digit"
	case KeyDecimal:
		return "decimal"
	case KeyOperator:
		return "operator"
	case KeyEquals:
		return "equals"
	case KeyClear:
		return "clear"
	}
	return fmt.Sprintf("KeyKind(%d)", int(k))
}

// Key is a single button press. Digit is set for KeyDigit, Operator for KeyOperator.
type Key struct {
	Kind     KeyKind
	Digit    int
	Operator Operator
}

func DigitKey(d int) Key { return Key{Kind: KeyDigit, Digit: d} }
func DecimalKey() Key { return Key{Kind: KeyDecimal} }
func OperatorKey(op Operator) Key { return Key{Kind: KeyOperator, Operator: op} }
func EqualsKey() Key { return Key{Kind: KeyEquals} }
func ClearKey() Key { return Key{Kind: KeyClear} }

// String returns the canonical keypad label.
func (k Key) String() string {
	switch k.Kind {
	case KeyDigit:
		return fmt.Sprintf("%d", k.Digit)
	case KeyDecimal:
		return "."
	case KeyOperator:
		return k.Operator.String()
	case KeyEquals:
		return "="
	case KeyClear:
		return "AC"
	}
	return k.Kind.String()
}

// Validate reports whether k could have come from a keypad button.
func (k Key) Validate() error {
	switch k.Kind {
	case KeyDigit:
		if k.Digit < 0 || k.Digit > 9 {
			return fmt.Errorf("%w: digit %d", ErrUnknownKey, k.Digit)
		}
	case KeyOperator:
		if k.Operator <= OpNone || k.Operator > OpDivide {
			return fmt.Errorf("%w: %s", ErrUnknownKey, k.Operator)
		}
	case KeyDecimal, KeyEquals, KeyClear:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, k.Kind)
	}
	return nil
}

// ParseKey maps a keypad label to a Key. Labels: 0-9, ".", "+", "-", "−",
// "×", "*", "÷", "/", "=", and "AC" or "C" in any case.
func ParseKey(label string) (Key, error) {
	if len(label) == 1 && isDigit(label[0]) {
		return DigitKey(int(label[0] - '0')), nil
	}
	switch label {
	case ".":
		return DecimalKey(), nil
	case "=":
		return EqualsKey(), nil
	}
	if strings.EqualFold(label, "AC") || strings.EqualFold(label, "C") {
		return ClearKey(), nil
	}
	if op, ok := ParseOperator(label); ok {
		return OperatorKey(op), nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// ParseKeys parses a sequence of labels. Labels may be separated by
// whitespace or run together, as in "12.5+3=".
func ParseKeys(seq string) ([]Key, error) {
	var keys []Key
	for _, field := range strings.Fields(seq) {
		if k, err := ParseKey(field); err == nil {
			keys = append(keys, k)
			continue
		}
		for len(field) > 0 {
			if strings.HasPrefix(strings.ToUpper(field), "AC") {
				keys = append(keys, ClearKey())
				field = field[2:]
				continue
			}
			r, size := utf8.DecodeRuneInString(field)
			k, err := ParseKey(string(r))
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			field = field[size:]
		}
	}
	return keys, nil
}
