package object

import "fmt"

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // Can be nil
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Class) LoxValueMarkerFunc() {}

func (c *Class) String() string {
	return fmt.Sprintf("<class %v>", c.Name)
}

// --------------------------------------------------------

func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	if methods == nil {
		methods = map[string]*Function{}
	}

	return &Class{
		Name:       name,
		Methods:    methods,
		Superclass: superclass,
	}
}

// Calling a class takes the arguments of its initializer.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Looks up the method in the class and then its superclass chain, nil if
// not found.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if fun, ok := class.Methods[name]; ok {
			return fun
		}
	}
	return nil
}

// Reports if the class is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for class := c; class != nil; class = class.Superclass {
		if class == other {
			return true
		}
	}
	return false
}
