package resolver

import "treelox/ast"

// Distance recorded for references which are resolved through the global
// environment by name.
const Global = -1

// Table maps reference IDs to scope distances. It is indexed directly by
// the dense IDs handed out by the parser.
type Table struct {
	distances []int
}

func NewTable(size int) *Table {
	t := &Table{distances: make([]int, size)}
	for i := range t.distances {
		t.distances[i] = Global
	}
	return t
}

// Returns the number of enclosing scopes to walk, false if the reference is
// global.
func (t *Table) Distance(ref ast.RefID) (int, bool) {
	if int(ref) >= len(t.distances) || t.distances[ref] == Global {
		return Global, false
	}
	return t.distances[ref], true
}

func (t *Table) Len() int {
	return len(t.distances)
}

func (t *Table) set(ref ast.RefID, distance int) {
	t.distances[ref] = distance
}

// Returns a copy of the distances, Global for unresolved references.
func (t *Table) Distances() []int {
	return append([]int(nil), t.distances...)
}
