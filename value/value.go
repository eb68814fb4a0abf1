package value

import (
	"errors"
	"math"
	"strconv"
)

// The lox value interface every value stored in any variable
// must be of this type(implement this interface).
type Value interface {
	String() string
	LoxValueMarkerFunc()
}

// Errors returned on invalid logical or mathematical operations, the
// interpreter attaches the operator position to them.
var (
	ErrOperandNumber  = errors.New("Operand must be a number.")
	ErrOperandsNumber = errors.New("Operands must be numbers.")
	ErrOperandsAdd    = errors.New("Operands must be two numbers or two strings.")
	ErrDivisionByZero = errors.New("Division by zero.")
)

// Primitve value types, that are: Nil, Boolean, Number and String are
// defined as in terms of go primitive types and are stored by value.
// For objects see treelox/object, they are stored as pointers.

type Nil struct{}
type Boolean bool
type Number float64
type String string

// Implement the value.Value interface for primitive types.
// --------------------------------------------------------
func (Nil) LoxValueMarkerFunc()     {}
func (Boolean) LoxValueMarkerFunc() {}
func (Number) LoxValueMarkerFunc()  {}
func (String) LoxValueMarkerFunc()  {}

func (n Nil) String() string {
	return "nil"
}

func (b Boolean) String() string {
	if b {
		return "true"
	} else {
		return "false"
	}
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string {
	return string(s)
}

// --------------------------------------------------------

// Logical operations for value.
// --------------------------------------------------------
func Truthiness(s Value) Boolean {
	switch v := s.(type) {
	case Nil:
		return false
	case Boolean:
		return v

	default:
		return true
	}
}

func EqualTo(s, t Value) Boolean {
	// Two values are equal only if their types and stored values are equal.
	// Primitives compare by value, objects are pointers and so compare by
	// identity.
	return s == t
}

func LessThan(s, t Value) (Boolean, error) {
	u, v, err := numbers(s, t)
	return u < v, err
}

func LessEqual(s, t Value) (Boolean, error) {
	u, v, err := numbers(s, t)
	return u <= v, err
}

func GreaterThan(s, t Value) (Boolean, error) {
	u, v, err := numbers(s, t)
	return u > v, err
}

func GreaterEqual(s, t Value) (Boolean, error) {
	u, v, err := numbers(s, t)
	return u >= v, err
}

// Mathematical operations for value.
// --------------------------------------------------------
func Neg(s Value) (Value, error) {
	if u, ok := s.(Number); ok {
		return -u, nil
	}

	return nil, ErrOperandNumber
}

func Add(s, t Value) (Value, error) {
	switch u := s.(type) {
	case Number:
		if v, ok := t.(Number); ok {
			return u + v, nil
		}

	case String:
		if v, ok := t.(String); ok {
			return u + v, nil
		}
	}

	return nil, ErrOperandsAdd
}

func Sub(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return u - v, nil
}

func Mul(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return u * v, nil
}

func Div(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	if v == 0 {
		return nil, ErrDivisionByZero
	}
	return u / v, nil
}

// Remainder truncated towards zero, the sign follows the dividend.
func Rem(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	if v == 0 {
		return nil, ErrDivisionByZero
	}
	return Number(math.Mod(float64(u), float64(v))), nil
}

func numbers(s, t Value) (Number, Number, error) {
	u, e := s.(Number)
	v, f := t.(Number)
	if e && f {
		return u, v, nil
	}

	return 0, 0, ErrOperandsNumber
}
