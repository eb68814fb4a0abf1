package resolver

type local struct {
	name string
	// False while the variable's own initializer is being resolved.
	defined bool
}

type localScope struct {
	// Local variables are usually small in number, so this is fine.
	locals []local
}

func makeLocalScope() localScope {
	return localScope{locals: make([]local, 0, 4)}
}

// Returns the slot index, -1 if variable is not present.
func (s *localScope) getVariable(name string) int {
	for i, local := range s.locals {
		if local.name == name {
			return i
		}
	}

	return -1
}

// Pushes the variable into the scope, not yet defined.
func (s *localScope) putVariable(name string) {
	s.locals = append(s.locals, local{name: name})
}

func (s *localScope) defineVariable(name string) {
	if i := s.getVariable(name); i >= 0 {
		s.locals[i].defined = true
	}
}

func (s *localScope) isDefined(slot int) bool {
	return s.locals[slot].defined
}
