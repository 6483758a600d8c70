package relationship

import (
	"context"
)

// FindPath runs a breadth-first search over the tree's relationship graph
// and returns the first shortest chain of edges connecting the two people.
// family_line and extended_family edges are traversable from -> to only;
// partner and sibling edges go both ways. An empty result with Found=false
// is a normal outcome, not an error.
func (s *Service) FindPath(ctx context.Context, person1ID, person2ID string, maxDepth int) (*PathResult, error) {
	p1, p2, err := s.resolvePair(ctx, person1ID, person2ID)
	if err != nil {
		return nil, err
	}
	if person1ID == person2ID {
		return nil, ErrSelfRelationship
	}
	if p1.TreeID != p2.TreeID {
		return nil, ErrCrossTree
	}

	if maxDepth <= 0 {
		maxDepth = s.policy.DefaultPathDepth
	}
	if maxDepth > s.policy.MaxPathDepth {
		maxDepth = s.policy.MaxPathDepth
	}

	edges, err := s.repo.ListByTree(ctx, p1.TreeID)
	if err != nil {
		return nil, err
	}
	adjacency := buildAdjacency(edges)

	parents := map[string]hop{}
	visited := map[string]struct{}{person1ID: {}}
	frontier := []string{person1ID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, n := range adjacency[id] {
				if _, seen := visited[n.otherID]; seen {
					continue
				}
				visited[n.otherID] = struct{}{}
				parents[n.otherID] = hop{prev: id, edge: n.edge}
				if n.otherID == person2ID {
					return &PathResult{Path: tracePath(parents, person1ID, person2ID), Found: true}, nil
				}
				next = append(next, n.otherID)
			}
		}
		frontier = next
	}

	return &PathResult{Path: []Relationship{}, Found: false}, nil
}

type neighbor struct {
	otherID string
	edge    Relationship
}

type hop struct {
	prev string
	edge Relationship
}

func buildAdjacency(edges []Relationship) map[string][]neighbor {
	adjacency := make(map[string][]neighbor)
	for _, e := range edges {
		if !e.IsActive {
			continue
		}
		adjacency[e.FromPersonID] = append(adjacency[e.FromPersonID], neighbor{otherID: e.ToPersonID, edge: e})
		if Symmetric(e.Category) {
			adjacency[e.ToPersonID] = append(adjacency[e.ToPersonID], neighbor{otherID: e.FromPersonID, edge: e})
		}
	}
	return adjacency
}

func tracePath(parents map[string]hop, start, end string) []Relationship {
	var reversed []Relationship
	for id := end; id != start; {
		h := parents[id]
		reversed = append(reversed, h.edge)
		id = h.prev
	}

	path := make([]Relationship, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}
