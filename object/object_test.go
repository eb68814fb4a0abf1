package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelox/ast"
	"treelox/token"
	"treelox/value"
)

func TestEnvironmentChain(t *testing.T) {
	globals := NewEnvironment(nil)
	globals.Define("a", value.Number(1))

	outer := NewEnvironment(globals)
	outer.Define("b", value.Number(2))
	inner := NewEnvironment(outer)

	v, ok := inner.GetAt(1, "b")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)

	v, ok = inner.GetAt(2, "a")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)

	// Exactly d links are walked.
	_, ok = inner.GetAt(0, "b")
	assert.False(t, ok)
	_, ok = inner.GetAt(5, "a")
	assert.False(t, ok)

	assert.True(t, inner.AssignAt(1, "b", value.String("x")))
	v, _ = outer.Get("b")
	assert.Equal(t, value.String("x"), v)

	assert.False(t, globals.Assign("missing", value.Nil{}))
}

func TestEnvironmentNames(t *testing.T) {
	env := NewGlobals()
	assert.Equal(t,
		[]string{"clock", "delattr", "getattr", "isinstance", "setattr", "str"},
		env.Names())
}

func method(name string, params ...string) *ast.Function {
	fn := &ast.Function{Name: token.Token{Kind: token.IDENTIFIER, Lexeme: name}}
	for _, p := range params {
		fn.Params = append(fn.Params, token.Token{Kind: token.IDENTIFIER, Lexeme: p})
	}
	return fn
}

func TestClassMethodLookup(t *testing.T) {
	base := NewClass("Base", map[string]*Function{
		"init":  NewFunction(method("init", "a", "b"), nil, nil, true),
		"greet": NewFunction(method("greet"), nil, nil, false),
	}, nil)
	derived := NewClass("Derived", nil, base)

	require.NotNil(t, derived.FindMethod("greet"))
	assert.Nil(t, derived.FindMethod("missing"))
	assert.Equal(t, 2, derived.Arity())

	assert.True(t, derived.IsSubclassOf(base))
	assert.False(t, base.IsSubclassOf(derived))
	assert.Equal(t, "<class Derived>", derived.String())
}

func TestInstanceProperties(t *testing.T) {
	class := NewClass("Point", map[string]*Function{
		"norm": NewFunction(method("norm"), nil, nil, false),
	}, nil)
	inst := NewInstance(class)

	inst.Set("x", value.Number(3))
	v, ok := inst.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(3), v)

	// Methods come back bound to the instance.
	v, ok = inst.Get("norm")
	require.True(t, ok)
	bound := v.(*Function)
	this, ok := bound.Closure.Get("this")
	require.True(t, ok)
	assert.Same(t, inst, this)

	// Fields shadow methods.
	inst.Set("norm", value.Nil{})
	v, _ = inst.Get("norm")
	assert.Equal(t, value.Nil{}, v)

	assert.True(t, inst.Delete("x"))
	assert.False(t, inst.Delete("x"))
	assert.Equal(t, "<instance of Point>", inst.String())
}

func TestFunctionNames(t *testing.T) {
	named := NewFunction(method("add", "a", "b"), nil, nil, false)
	assert.Equal(t, "<fn add>", named.String())
	assert.Equal(t, "add", named.Name())
	assert.Equal(t, 2, named.Arity())

	lit := NewFunction(&ast.Function{Name: token.Token{Kind: token.FUN, Lexeme: "fun"}}, nil, nil, false)
	assert.Equal(t, "<fn>", lit.String())
	assert.Equal(t, "<anonymous>", lit.Name())
}

func callNative(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()

	v, ok := NewGlobals().Get(name)
	require.True(t, ok, "native %v not defined", name)
	return v.(*NativeFunction).Call(args)
}

func TestNativeAttributes(t *testing.T) {
	class := NewClass("Box", nil, nil)
	inst := NewInstance(class)

	v, err := callNative(t, "setattr", inst, value.String("size"), value.Number(4))
	require.NoError(t, err)
	assert.Equal(t, value.Number(4), v)

	v, err = callNative(t, "getattr", inst, value.String("size"))
	require.NoError(t, err)
	assert.Equal(t, value.Number(4), v)

	_, err = callNative(t, "delattr", inst, value.String("size"))
	require.NoError(t, err)

	_, err = callNative(t, "getattr", inst, value.String("size"))
	assert.EqualError(t, err, "Undefined property 'size'.")

	_, err = callNative(t, "getattr", value.Number(1), value.String("size"))
	assert.EqualError(t, err, "First argument to 'getattr' should be an instance.")
}

func TestNativeIsInstance(t *testing.T) {
	base := NewClass("Base", nil, nil)
	derived := NewClass("Derived", nil, base)

	v, err := callNative(t, "isinstance", NewInstance(derived), base)
	require.NoError(t, err)
	assert.Equal(t, value.Boolean(true), v)

	v, err = callNative(t, "isinstance", NewInstance(base), derived)
	require.NoError(t, err)
	assert.Equal(t, value.Boolean(false), v)

	v, err = callNative(t, "isinstance", value.Number(1), base)
	require.NoError(t, err)
	assert.Equal(t, value.Boolean(false), v)

	_, err = callNative(t, "isinstance", NewInstance(base), value.Nil{})
	assert.Error(t, err)
}

func TestNativeStrAndClock(t *testing.T) {
	v, err := callNative(t, "str", value.Number(2.5))
	require.NoError(t, err)
	assert.Equal(t, value.String("2.5"), v)

	v, err = callNative(t, "clock")
	require.NoError(t, err)
	assert.Greater(t, float64(v.(value.Number)), 0.0)
}
