package assembly

import (
	"github.com/libforge/libforge/internal/model"
)

// ResolveDependencies expands the requested qualified module names into
// their full transitive closure, using the Environment as the sole source
// of truth for availability.
//
// The closure is computed breadth-first: the requested modules seed the
// selection, then each round collects the not-yet-selected dependencies of
// the previous round's discoveries and appends them in discovery order.
// Each module is added at most once, so the result is duplicate-free and a
// dependency cycle cannot loop forever.
//
// The returned order is BFS discovery order, not a build order; a module
// may appear before a dependency it needs. BuildOrder computes a
// dependency-respecting ordering when one is required.
//
// A requested or depended-upon name with no environment entry fails with a
// resolution error naming the module.
func (a *Assembler) ResolveDependencies(requested []string) ([]*model.Module, error) {
	var selected []*model.Module
	inSelection := make(map[string]bool)

	for _, qname := range requested {
		m, err := a.env.Lookup(qname)
		if err != nil {
			return nil, err
		}
		if inSelection[m.QualifiedName()] {
			continue
		}
		inSelection[m.QualifiedName()] = true
		selected = append(selected, m)
	}

	frontier := selected
	for len(frontier) > 0 {
		var next []*model.Module
		for _, m := range frontier {
			for _, dep := range m.Dependencies() {
				d, err := a.env.Lookup(dep)
				if err != nil {
					return nil, err
				}
				if inSelection[d.QualifiedName()] {
					continue
				}
				inSelection[d.QualifiedName()] = true
				next = append(next, d)
			}
		}
		selected = append(selected, next...)
		frontier = next
	}

	return selected, nil
}
