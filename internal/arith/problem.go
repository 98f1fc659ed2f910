// Package arith generates the addition problems asked during a turn.
package arith

import (
	"fmt"
	"math/rand"
)

// Problem is a single addition a + b.
type Problem struct {
	A int
	B int
}

// Answer returns a + b.
func (p Problem) Answer() int {
	return p.A + p.B
}

// String renders the problem as "a + b".
func (p Problem) String() string {
	return fmt.Sprintf("%d + %d", p.A, p.B)
}

// Generator draws operands uniformly from [min, max].
type Generator struct {
	rnd      *rand.Rand
	min, max int
}

// NewGenerator returns a Generator drawing from rnd.
func NewGenerator(rnd *rand.Rand, min, max int) *Generator {
	if max < min {
		min, max = max, min
	}
	return &Generator{rnd: rnd, min: min, max: max}
}

// Next returns a fresh problem.
func (g *Generator) Next() Problem {
	return Problem{A: g.operand(), B: g.operand()}
}

func (g *Generator) operand() int {
	return g.min + g.rnd.Intn(g.max-g.min+1)
}
