package interpreter

import "treelox/value"

// How the execution of a statement ended.
type controlKind uint8

const (
	controlNormal controlKind = iota
	controlBreak
	controlReturn
)

// Blocks pass a non-normal outcome up unchanged, loops absorb a break and
// calls absorb a return.
type outcome struct {
	kind  controlKind
	value value.Value // Only for controlReturn.
}

var normal = outcome{kind: controlNormal}
