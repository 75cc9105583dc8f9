package vault

import (
	"sort"

	"github.com/starford/ansuz/internal/models"
)

// Graph maintains forward-link and backlink adjacency between page keys.
// The two maps are exact transposes of each other after every exported call:
// target ∈ forward[source] ⇔ source ∈ back[target].
type Graph struct {
	forward map[string]map[string]struct{}
	back    map[string]map[string]struct{}
}

// NewGraph creates an empty link graph.
func NewGraph() *Graph {
	return &Graph{
		forward: make(map[string]map[string]struct{}),
		back:    make(map[string]map[string]struct{}),
	}
}

// RecomputeOutgoing resolves each reference text and replaces key's outgoing
// edge set, patching the backlink sets of every target that entered or left
// the set. References that resolve nowhere create no edge and are returned
// so the caller can retry them when the vault changes.
func (g *Graph) RecomputeOutgoing(key string, refs []string, resolve func(string) (string, bool)) []string {
	targets := make(map[string]struct{}, len(refs))
	var unresolved []string
	for _, ref := range refs {
		if target, ok := resolve(ref); ok {
			targets[target] = struct{}{}
		} else {
			unresolved = append(unresolved, ref)
		}
	}
	g.setOutgoing(key, targets)
	return unresolved
}

// setOutgoing diffs the new target set against forward[key] and keeps the
// backlink sets in sync before replacing the forward set.
func (g *Graph) setOutgoing(key string, targets map[string]struct{}) {
	prev := g.forward[key]
	for target := range prev {
		if _, keep := targets[target]; !keep {
			g.unlinkBack(target, key)
		}
	}
	for target := range targets {
		if _, had := prev[target]; !had {
			if g.back[target] == nil {
				g.back[target] = make(map[string]struct{})
			}
			g.back[target][key] = struct{}{}
		}
	}
	if len(targets) == 0 {
		delete(g.forward, key)
		return
	}
	g.forward[key] = targets
}

// unlinkBack removes source from target's backlink set, dropping the set
// once empty.
func (g *Graph) unlinkBack(target, source string) {
	delete(g.back[target], source)
	if len(g.back[target]) == 0 {
		delete(g.back, target)
	}
}

// RemoveDocument removes key from the graph entirely: its own outgoing edges
// (and their backlink contributions), plus every edge pointing at it, so no
// dangling edge survives deletion. It returns the keys that linked to the
// removed page; their references are now unresolved and the caller is
// expected to recompute them.
func (g *Graph) RemoveDocument(key string) []string {
	g.setOutgoing(key, nil)

	sources := make([]string, 0, len(g.back[key]))
	for source := range g.back[key] {
		delete(g.forward[source], key)
		if len(g.forward[source]) == 0 {
			delete(g.forward, source)
		}
		sources = append(sources, source)
	}
	delete(g.back, key)
	sort.Strings(sources)
	return sources
}

// Forward returns the keys that key's page links to, sorted.
func (g *Graph) Forward(key string) []string {
	return sortedKeys(g.forward[key])
}

// Backlinks returns the keys whose pages link to key, sorted.
func (g *Graph) Backlinks(key string) []string {
	return sortedKeys(g.back[key])
}

// Edges returns every edge in the graph, sorted by source then target.
func (g *Graph) Edges() []models.Link {
	var out []models.Link
	for source, targets := range g.forward {
		for target := range targets {
			out = append(out, models.Link{Source: source, Target: target})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
