package calcx

import "strings"

// Snapshot is the complete calculator state. Methods return a new value and
// never modify the receiver.
type Snapshot struct {
	// Display is the on-screen numeral. It holds at most one '.'.
	Display string `json:"display" yaml:"display"`
	// Operand is the first operand of the pending operation, or the running result.
	Operand    float64 `json:"operand" yaml:"operand"`
	HasOperand bool    `json:"hasOperand" yaml:"hasOperand"`
	// Operator is OpNone unless an operator was pressed since the last Clear or Equals.
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	// Fresh means the next digit starts a new number instead of extending Display.
	Fresh bool `json:"fresh" yaml:"fresh"`
}

// Initial returns the state of a newly opened calculator.
func Initial() Snapshot {
	return Snapshot{Display: "0", Fresh: true}
}

// Value reads the display as a number.
func (s Snapshot) Value() float64 {
	return ParseNumber(s.Display)
}

// Pending reports whether Equals would evaluate something.
func (s Snapshot) Pending() bool {
	return s.HasOperand && s.Operator != OpNone
}

// Apply dispatches k to the matching transition. Keys that fail Validate
// leave the state unchanged.
func (s Snapshot) Apply(k Key) Snapshot {
	if k.Validate() != nil {
		return s
	}
	switch k.Kind {
	case KeyDigit:
		return s.Digit(k.Digit)
	case KeyDecimal:
		return s.Decimal()
	case KeyOperator:
		return s.Operate(k.Operator)
	case KeyEquals:
		return s.Equals()
	case KeyClear:
		return s.Clear()
	}
	return s
}

func (s Snapshot) Digit(d int) Snapshot {
	digit := string(rune('0' + d))
	switch {
	case s.Fresh:
		s.Display = digit
		s.Fresh = false
	case s.Display == "0":
		s.Display = digit
	default:
		s.Display += digit
	}
	return s
}

func (s Snapshot) Decimal() Snapshot {
	switch {
	case s.Fresh:
		s.Display = "0."
		s.Fresh = false
	case !strings.Contains(s.Display, "."):
		s.Display += "."
	}
	return s
}

// Operate records op as the pending operator. If an operation was already
// pending it is evaluated first and its result becomes the new operand.
func (s Snapshot) Operate(op Operator) Snapshot {
	current := s.Value()
	switch {
	case !s.HasOperand:
		s.Operand = current
		s.HasOperand = true
	case s.Operator != OpNone:
		result := Evaluate(s.Operand, current, s.Operator)
		s.Display = FormatNumber(result)
		s.Operand = result
	}
	s.Operator = op
	s.Fresh = true
	return s
}

// Equals evaluates the pending operation and clears it. Without a pending
// operation it is a no-op.
func (s Snapshot) Equals() Snapshot {
	if !s.Pending() {
		return s
	}
	result := Evaluate(s.Operand, s.Value(), s.Operator)
	return Snapshot{Display: FormatNumber(result), Fresh: true}
}

func (s Snapshot) Clear() Snapshot {
	return Initial()
}
