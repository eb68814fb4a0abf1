package object

import (
	"fmt"

	"treelox/value"
)

type Instance struct {
	Fields map[string]value.Value
	Class  *Class
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Instance) LoxValueMarkerFunc() {}

func (i *Instance) String() string {
	return fmt.Sprintf("<instance of %v>", i.Class.Name)
}

// --------------------------------------------------------

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: map[string]value.Value{}}
}

func (i *Instance) Get(name string) (value.Value, bool) {
	// Fields take precedence over methods
	if value, ok := i.Fields[name]; ok {
		return value, true
	} else if method := i.Class.FindMethod(name); method != nil {
		// Puts 'this' so that the method can access it.
		return method.Bind(i), true
	} else {
		return nil, false
	}
}

func (i *Instance) Set(name string, value value.Value) {
	i.Fields[name] = value
}

// Removes the field, false if the instance has no such field.
func (i *Instance) Delete(name string) bool {
	if _, ok := i.Fields[name]; !ok {
		return false
	}

	delete(i.Fields, name)
	return true
}
