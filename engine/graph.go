package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/futurewallet/wallet/scenario"
)

// Structural graph errors. Both are raised while building the execution
// order, before any day is simulated.
var (
	ErrUnknownDependency = errors.New("dependency on unknown component")
	ErrCycle             = errors.New("cycle detected in component graph")
)

// Component is a node in the daily execution graph. Each day, every
// component runs Prepare (read state, stage deltas) then Apply (mutate
// state) in dependency order. Prepare must not mutate st.
type Component interface {
	ID() string
	Dependencies() []string
	Prepare(day int, st *DayState, cfg *scenario.Scenario)
	Apply(day int, st *DayState, cfg *scenario.Scenario)
}

// sortComponents computes a canonical execution order with Kahn's
// algorithm. Ties among ready nodes break by ascending component id,
// and newly-ready nodes are inserted at their sorted position, so a
// fixed component set always yields the same order.
func sortComponents(comps []Component) ([]Component, error) {
	byID := make(map[string]Component, len(comps))
	inDegree := make(map[string]int, len(comps))
	adjacency := make(map[string][]string, len(comps))

	for _, c := range comps {
		byID[c.ID()] = c
		inDegree[c.ID()] = 0
	}
	for _, c := range comps {
		for _, dep := range c.Dependencies() {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("component %q: %w: %q", c.ID(), ErrUnknownDependency, dep)
			}
			adjacency[dep] = append(adjacency[dep], c.ID())
			inDegree[c.ID()]++
		}
	}

	var ready []string
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	sorted := make([]Component, 0, len(comps))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, byID[id])

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				at := sort.SearchStrings(ready, next)
				ready = append(ready, "")
				copy(ready[at+1:], ready[at:])
				ready[at] = next
			}
		}
	}

	if len(sorted) != len(comps) {
		return nil, ErrCycle
	}
	return sorted, nil
}
