// Package deps orders formula columns so that every column is computed after
// the formula columns it references.
package deps

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Dependency is a formula column and the column keys its formula references.
type Dependency struct {
	Column     string
	References []string
}

func (dep Dependency) ToString() string {
	return strings.Join([]string{
		dep.Column,
		"<-",
		strings.Join(dep.References, ","),
	}, "")
}

// Order returns the formula columns in evaluation order, followed separately
// by the columns that sit on or behind a reference cycle and so cannot be
// ordered. References to columns outside deps are ignored and duplicates
// count once. Ties are broken by column key so the order is stable across
// calls.
func Order(deps []Dependency) (ordered []string, cyclic []string) {
	edges := make(map[string]map[string]bool, len(deps))
	for _, dep := range deps {
		edges[dep.Column] = make(map[string]bool)
	}
	for _, dep := range deps {
		for _, ref := range dep.References {
			if _, ok := edges[ref]; ok {
				edges[dep.Column][ref] = true
			}
		}
	}

	// number of unresolved formula columns each column waits on
	waiting := make(map[string]int, len(edges))
	dependents := make(map[string][]string, len(edges))
	for col, refs := range edges {
		waiting[col] = len(refs)
		for ref := range refs {
			dependents[ref] = append(dependents[ref], col)
		}
	}

	ready := []string{}
	for col, n := range waiting {
		if n == 0 {
			ready = append(ready, col)
		}
	}
	ordered = make([]string, 0, len(edges))
	for len(ready) > 0 {
		slices.Sort(ready)
		col := ready[0]
		ready = ready[1:]
		ordered = append(ordered, col)
		for _, dependent := range dependents[col] {
			waiting[dependent]--
			if waiting[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	cyclic = []string{}
	for _, col := range maps.Keys(waiting) {
		if waiting[col] > 0 {
			cyclic = append(cyclic, col)
		}
	}
	slices.Sort(cyclic)
	return ordered, cyclic
}
