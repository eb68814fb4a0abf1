package object

import (
	"fmt"
	"time"

	"treelox/value"
)

var NativeFunctionsList []*NativeFunction = []*NativeFunction{
	{"clock", 0, clock},
	{"str", 1, tostring},
	{"getattr", 2, getattr},
	{"setattr", 3, setattr},
	{"delattr", 2, delattr},
	{"isinstance", 2, isinstance},
}

type NativeFunction struct {
	Name       string
	ParamCount int
	Function   func(args []value.Value) (value.Value, error)
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*NativeFunction) LoxValueMarkerFunc() {}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %v>", n.Name)
}

// --------------------------------------------------------

func (n *NativeFunction) Arity() int {
	return n.ParamCount
}

func (n *NativeFunction) Call(args []value.Value) (value.Value, error) {
	// Arity is verified by the interpreter, so crash on a mismatch here.
	if len(args) != n.Arity() {
		panic("Got wrong number of arguments in native function.")
	}

	return n.Function(args)
}

// Makes a global environment holding every native function.
func NewGlobals() *Environment {
	env := NewEnvironment(nil)
	DefineNatives(env)
	return env
}

func DefineNatives(env *Environment) {
	for _, native := range NativeFunctionsList {
		env.Define(native.Name, native)
	}
}

// Error returned by native functions on domain or type error.
// Note arity is verified by the interpreter.
// --------------------------------------------------------
type NativeError struct {
	message string
}

// For 'error' interface
func (n NativeError) Error() string { return n.message }

func makeNativeError(format string, args ...any) NativeError {
	return NativeError{message: fmt.Sprintf(format, args...)}
}

// Native functions
// --------------------------------------------------------

// Seconds since the Unix epoch.
func clock(args []value.Value) (value.Value, error) {
	return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
}

func tostring(args []value.Value) (value.Value, error) {
	return value.String(args[0].String()), nil
}

func getattr(args []value.Value) (value.Value, error) {
	instance, field, err := instanceAndField("getattr", args)
	if err != nil {
		return nil, err
	}

	if v, ok := instance.Get(string(field)); ok {
		return v, nil
	}
	return nil, makeNativeError("Undefined property '%v'.", field)
}

func setattr(args []value.Value) (value.Value, error) {
	instance, field, err := instanceAndField("setattr", args)
	if err != nil {
		return nil, err
	}

	instance.Set(string(field), args[2])
	return args[2], nil
}

func delattr(args []value.Value) (value.Value, error) {
	instance, field, err := instanceAndField("delattr", args)
	if err != nil {
		return nil, err
	}

	if !instance.Delete(string(field)) {
		return nil, makeNativeError("Undefined property '%v'.", field)
	}
	return value.Nil{}, nil
}

func isinstance(args []value.Value) (value.Value, error) {
	class, err := extractArg[*Class](args[1],
		"Second argument to 'isinstance' should be a class.")
	if err != nil {
		return nil, err
	}

	// Any other value is simply not an instance.
	instance, ok := args[0].(*Instance)
	return value.Boolean(ok && instance.Class.IsSubclassOf(class)), nil
}

// Type checking helpers
// --------------------------------------------------------
func instanceAndField(fun string, args []value.Value) (*Instance, value.String, error) {
	instance, err := extractArg[*Instance](args[0],
		"First argument to '%v' should be an instance.", fun)
	if err != nil {
		return nil, "", err
	}

	field, err := extractArg[value.String](args[1],
		"Second argument to '%v' should be a field name.", fun)
	if err != nil {
		return nil, "", err
	}

	return instance, field, nil
}

func extractArg[T value.Value](arg value.Value, format string, args ...any) (T, error) {
	if v, ok := arg.(T); ok {
		return v, nil
	}

	var zero T
	return zero, makeNativeError(format, args...)
}
