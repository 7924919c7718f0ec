package schema

import (
	apperrors "github.com/kbukum/sqlcache/errors"
)

// dependencyGraph orders table names so that referenced tables come first.
// Ties are broken by registration order.
type dependencyGraph struct {
	names []string
	index map[string]int
	deps  map[string]map[string]bool
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{
		index: make(map[string]int),
		deps:  make(map[string]map[string]bool),
	}
}

func (g *dependencyGraph) add(name string) bool {
	if _, ok := g.index[name]; ok {
		return false
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.deps[name] = make(map[string]bool)
	return true
}

// require records that table must be loaded after dependency.
func (g *dependencyGraph) require(table, dependency string) {
	if table == dependency {
		return
	}
	if _, ok := g.index[dependency]; !ok {
		return
	}
	if _, ok := g.deps[table]; !ok {
		return
	}
	g.deps[table][dependency] = true
}

func (g *dependencyGraph) sort() ([]string, error) {
	pending := make(map[string]int, len(g.names))
	dependents := make(map[string][]string)
	for _, name := range g.names {
		pending[name] = len(g.deps[name])
		for dep := range g.deps[name] {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	done := make(map[string]bool, len(g.names))
	order := make([]string, 0, len(g.names))
	for len(order) < len(g.names) {
		next := ""
		for _, name := range g.names {
			if !done[name] && pending[name] == 0 {
				next = name
				break
			}
		}
		if next == "" {
			var stuck []string
			for _, name := range g.names {
				if !done[name] {
					stuck = append(stuck, name)
				}
			}
			return nil, apperrors.DependencyCycle(stuck)
		}
		done[next] = true
		order = append(order, next)
		for _, d := range dependents[next] {
			pending[d]--
		}
	}
	return order, nil
}
