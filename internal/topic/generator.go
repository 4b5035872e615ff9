package topic

import (
	"math/rand"
	"time"
)

// Generator picks random topic prompts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniformly random prompt, or "" for an empty list.
func (g *Generator) Pick(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	return topics[g.rnd.Intn(len(topics))]
}

// Next picks a prompt different from current when the list allows it.
func (g *Generator) Next(topics []string, current string) string {
	if len(topics) < 2 {
		return g.Pick(topics)
	}
	for {
		if t := g.Pick(topics); t != current {
			return t
		}
	}
}
