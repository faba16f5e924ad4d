// Package inspectorreg implements the inspector registry and dependency
// graph (C6): name-keyed registration with targetKind/tag indexes, plus
// the cycle/unused-tag/duplicate-tag diagnostics run at construction.
package inspectorreg

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
)

// Registry is keyed by inspector name and additionally indexes by
// targetKind and by produced/required tag.
type Registry struct {
	byName        map[string]inspector.Inspector
	order         []string // registration order, preserved for scheduling stability (§5)
	byTargetKind  map[inspector.TargetKind][]string
	byProducedTag map[string][]string
	byRequiredTag map[string][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:        make(map[string]inspector.Inspector),
		byTargetKind:  make(map[inspector.TargetKind][]string),
		byProducedTag: make(map[string][]string),
		byRequiredTag: make(map[string][]string),
	}
}

// Register adds insp to the registry. Duplicate names reject the second
// registration with a RegistryError.
func (r *Registry) Register(insp inspector.Inspector) error {
	name := insp.Name()
	if _, exists := r.byName[name]; exists {
		return apperrors.RegistryErrorf("duplicate inspector name %q", name)
	}

	r.byName[name] = insp
	r.order = append(r.order, name)
	r.byTargetKind[insp.TargetKind()] = append(r.byTargetKind[insp.TargetKind()], name)

	deps := insp.Dependencies()
	for tag := range deps.Produces {
		r.byProducedTag[tag] = append(r.byProducedTag[tag], name)
	}
	for tag := range deps.Requires {
		r.byRequiredTag[tag] = append(r.byRequiredTag[tag], name)
	}

	return nil
}

// All returns every registered inspector in registration order.
func (r *Registry) All() []inspector.Inspector {
	out := make([]inspector.Inspector, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// ForTargetKind returns every inspector whose targetKind is kind or ANY.
func (r *Registry) ForTargetKind(kind inspector.TargetKind) []inspector.Inspector {
	out := make([]inspector.Inspector, 0)
	for _, name := range r.order {
		insp := r.byName[name]
		if insp.TargetKind() == kind || insp.TargetKind() == inspector.TargetAny {
			out = append(out, insp)
		}
	}
	return out
}

// Get returns the inspector registered under name.
func (r *Registry) Get(name string) (inspector.Inspector, bool) {
	insp, ok := r.byName[name]
	return insp, ok
}

// DependencyEdge is one P -> C edge in the dependency graph: P produces
// every tag in Tags, all required by C. Multiple shared tags consolidate
// into one edge's Tags set rather than parallel edges.
type DependencyEdge struct {
	Producer string
	Consumer string
	Tags     []string
}

// BuildDependencyGraph derives the P -> C edges: an edge exists iff some
// tag is in P.produces ∩ C.requires.
func (r *Registry) BuildDependencyGraph() []DependencyEdge {
	pairTags := make(map[[2]string]map[string]struct{})

	for tag, producers := range r.byProducedTag {
		consumers := r.byRequiredTag[tag]
		for _, p := range producers {
			for _, c := range consumers {
				if p == c {
					continue
				}
				key := [2]string{p, c}
				if pairTags[key] == nil {
					pairTags[key] = make(map[string]struct{})
				}
				pairTags[key][tag] = struct{}{}
			}
		}
	}

	edges := make([]DependencyEdge, 0, len(pairTags))
	for key, tags := range pairTags {
		tagList := make([]string, 0, len(tags))
		for t := range tags {
			tagList = append(tagList, t)
		}
		sort.Strings(tagList)
		edges = append(edges, DependencyEdge{Producer: key[0], Consumer: key[1], Tags: tagList})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Producer != edges[j].Producer {
			return edges[i].Producer < edges[j].Producer
		}
		return edges[i].Consumer < edges[j].Consumer
	})

	return edges
}

// TopologicalOrder returns a best-effort topological ordering of
// inspector names for intra-pass scheduling hints only; correctness of
// the multi-pass executor never depends on this order. Cycles are broken
// arbitrarily (registration order) rather than erroring — cycles are
// reported separately as a diagnostic (§4.5).
func (r *Registry) TopologicalOrder() []string {
	edges := r.BuildDependencyGraph()
	adjacency := make(map[string][]string)
	inDegree := make(map[string]int)
	for _, name := range r.order {
		inDegree[name] = 0
	}
	for _, e := range edges {
		adjacency[e.Producer] = append(adjacency[e.Producer], e.Consumer)
		inDegree[e.Consumer]++
	}

	var queue []string
	for _, name := range r.order {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	visited := make(map[string]struct{})
	out := make([]string, 0, len(r.order))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := visited[name]; ok {
			continue
		}
		visited[name] = struct{}{}
		out = append(out, name)
		for _, next := range adjacency[name] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	// Anything left unvisited participates in a cycle; append in
	// registration order so scheduling still proceeds deterministically.
	for _, name := range r.order {
		if _, ok := visited[name]; !ok {
			out = append(out, name)
		}
	}

	return out
}

// String renders the registry for debugging: inspector count and
// registration order.
func (r *Registry) String() string {
	return fmt.Sprintf("inspectorreg.Registry{%d inspectors: %s}", len(r.order), strings.Join(r.order, ", "))
}
