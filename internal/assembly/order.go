package assembly

import (
	"strings"

	"github.com/libforge/libforge/internal/model"
)

// BuildOrder reorders a resolved closure so every module appears after the
// dependencies it declares. The build driver uses this ordering when
// invoking Build callbacks; resolution output itself stays in discovery
// order.
//
// The ordering is computed with Kahn's algorithm and is deterministic:
// modules at the same topological depth keep their relative closure order.
// A dependency cycle makes a build order impossible and is a fatal error
// naming the modules involved.
func BuildOrder(selected []*model.Module) ([]*model.Module, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	byName := make(map[string]*model.Module, len(selected))
	for _, m := range selected {
		byName[m.QualifiedName()] = m
	}

	// In-degree counts one edge per dependency inside the selection.
	// Resolution guarantees the closure is complete, so every declared
	// dependency of a selected module is itself selected.
	inDegree := make(map[string]int, len(selected))
	dependents := make(map[string][]string, len(selected))
	for _, m := range selected {
		inDegree[m.QualifiedName()] += 0
		for _, dep := range m.Dependencies() {
			if _, ok := byName[dep]; !ok {
				continue
			}
			dependents[dep] = append(dependents[dep], m.QualifiedName())
			inDegree[m.QualifiedName()]++
		}
	}

	var queue []string
	for _, m := range selected {
		if inDegree[m.QualifiedName()] == 0 {
			queue = append(queue, m.QualifiedName())
		}
	}

	ordered := make([]*model.Module, 0, len(selected))
	for len(queue) > 0 {
		qname := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byName[qname])

		for _, dependent := range dependents[qname] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(ordered) != len(selected) {
		// Modules with remaining in-degree form the cycle.
		var remaining []string
		for _, m := range selected {
			if inDegree[m.QualifiedName()] > 0 {
				remaining = append(remaining, m.QualifiedName())
			}
		}
		return nil, model.Errf(model.ErrDependencyCycle,
			"dependency cycle prevents a build order: %s", strings.Join(remaining, ", "))
	}

	return ordered, nil
}
