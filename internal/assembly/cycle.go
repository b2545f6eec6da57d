package assembly

import (
	"fmt"
	"strings"
)

// CycleWarning reports a dependency cycle among gated modules.
//
// Cycles are warnings at validation time, not errors: breadth-first
// closure tolerates them and still terminates. They only become fatal when
// the build driver needs a topological order (see BuildOrder).
type CycleWarning struct {
	Path    []string `json:"path"`    // cycle path: ["core:a", "core:b", "core:a"]
	Message string   `json:"message"` // human-readable description
}

// AnalyzeCycles performs static cycle analysis over the dependency graph
// of every module in the Environment.
//
// The algorithm:
//  1. Build the module -> dependency graph from declared dependencies,
//     skipping names with no environment entry (those surface as
//     resolution errors elsewhere).
//  2. Find strongly connected components with Tarjan's algorithm.
//  3. Report each SCC larger than one module, or with a self-loop, as a
//     cycle warning.
//
// A cycle-free graph returns an empty list.
func (a *Assembler) AnalyzeCycles() []CycleWarning {
	graph := make(dependencyGraph, a.env.Len())
	for _, qname := range a.env.Names() {
		m, _ := a.env.Lookup(qname)
		graph[qname] = []string{}
		for _, dep := range m.Dependencies() {
			if _, err := a.env.Lookup(dep); err != nil {
				continue
			}
			graph[qname] = append(graph[qname], dep)
		}
	}

	sccs := tarjanSCC(graph, a.env.Names())

	var warnings []CycleWarning
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, sccToWarning(scc, graph))
		}
	}
	return warnings
}

// dependencyGraph maps a qualified module name to its dependencies.
type dependencyGraph map[string][]string

func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in the given order so output is deterministic.
// Single-node SCCs without self-loops are not cycles.
func tarjanSCC(graph dependencyGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// sccToWarning converts an SCC to a CycleWarning with a reconstructed
// cycle path.
func sccToWarning(scc []string, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		qname := scc[0]
		return CycleWarning{
			Path:    []string{qname, qname},
			Message: fmt.Sprintf("module %s depends on itself", qname),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("dependency cycle: %s", strings.Join(path, " -> ")),
	}
}

// reconstructCyclePath walks edges inside the SCC from its first node
// until it returns to the start.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
