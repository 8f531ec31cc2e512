package calcx

import "fmt"

// Operator is a pending binary operation. The zero value means none is pending.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

var operatorSymbols = [...]string{
	OpNone:     "",
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "×",
	OpDivide:   "÷",
}

// String returns the keypad symbol.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorSymbols) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorSymbols[o]
}

// ParseOperator accepts keypad symbols and their ASCII stand-ins.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-", "−":
		return OpSubtract, true
	case "×", "*", "x":
		return OpMultiply, true
	case "÷", "/":
		return OpDivide, true
	}
	return OpNone, false
}

// MarshalText encodes the operator as its symbol, so snapshots read naturally in YAML and JSON.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Operator) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*o = OpNone
		return nil
	}
	op, ok := ParseOperator(string(text))
	if !ok {
		return fmt.Errorf("unknown operator %q", text)
	}
	*o = op
	return nil
}

// Evaluate applies op to a and b. Division by zero yields 0, and any
// operator outside the four arithmetic ones yields b.
func Evaluate(a, b float64, op Operator) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return b
	}
}
