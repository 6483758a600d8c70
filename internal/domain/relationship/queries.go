package relationship

import (
	"context"

	"family-tree-go/internal/domain/person"
)

// FamilyLineView partitions a person's direct family_line edges.
type FamilyLineView struct {
	Parents  []person.Person `json:"parents"`
	Children []person.Person `json:"children"`
}

// FamilyLine resolves the person's direct parents and children. Direction
// and generation sign together decide which side of the split the other
// endpoint lands on.
func (s *Service) FamilyLine(ctx context.Context, personID string) (*FamilyLineView, error) {
	if _, err := s.people.Get(ctx, personID); err != nil {
		return nil, err
	}

	edges, err := s.repo.ListByPerson(ctx, personID, CategoryFamilyLine, true)
	if err != nil {
		return nil, err
	}

	var parentIDs, childIDs []string
	for _, e := range edges {
		parentID, childID, ok := e.ParentChild()
		if !ok {
			continue
		}
		switch personID {
		case childID:
			parentIDs = append(parentIDs, parentID)
		case parentID:
			childIDs = append(childIDs, childID)
		}
	}

	parents, err := s.resolveMany(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	children, err := s.resolveMany(ctx, childIDs)
	if err != nil {
		return nil, err
	}
	return &FamilyLineView{Parents: parents, Children: children}, nil
}

// Partners resolves the other endpoint of the person's active partner
// edges.
func (s *Service) Partners(ctx context.Context, personID string) ([]person.Person, error) {
	return s.othersByCategory(ctx, personID, CategoryPartner)
}

// Siblings resolves the other endpoint of the person's active sibling
// edges.
func (s *Service) Siblings(ctx context.Context, personID string) ([]person.Person, error) {
	return s.othersByCategory(ctx, personID, CategorySibling)
}

// Ancestors walks the family line upwards, breadth-first, up to
// maxGenerations levels (0 falls back to the policy cap). People are
// returned in discovery order, closest generation first.
func (s *Service) Ancestors(ctx context.Context, personID string, maxGenerations int) ([]person.Person, error) {
	return s.walkFamilyLine(ctx, personID, maxGenerations, func(e *Relationship, id string) (string, bool) {
		parentID, childID, ok := e.ParentChild()
		if !ok || childID != id {
			return "", false
		}
		return parentID, true
	})
}

// Descendants walks the family line downwards, breadth-first, up to
// maxGenerations levels.
func (s *Service) Descendants(ctx context.Context, personID string, maxGenerations int) ([]person.Person, error) {
	return s.walkFamilyLine(ctx, personID, maxGenerations, func(e *Relationship, id string) (string, bool) {
		parentID, childID, ok := e.ParentChild()
		if !ok || parentID != id {
			return "", false
		}
		return childID, true
	})
}

func (s *Service) walkFamilyLine(ctx context.Context, personID string, maxGenerations int, step func(*Relationship, string) (string, bool)) ([]person.Person, error) {
	if _, err := s.people.Get(ctx, personID); err != nil {
		return nil, err
	}
	if maxGenerations <= 0 || maxGenerations > s.policy.MaxGenerations {
		maxGenerations = s.policy.MaxGenerations
	}

	visited := map[string]struct{}{personID: {}}
	frontier := []string{personID}
	var order []string

	for generation := 0; generation < maxGenerations && len(frontier) > 0; generation++ {
		var next []string
		for _, id := range frontier {
			edges, err := s.repo.ListByPerson(ctx, id, CategoryFamilyLine, true)
			if err != nil {
				return nil, err
			}
			for i := range edges {
				otherID, ok := step(&edges[i], id)
				if !ok {
					continue
				}
				if _, seen := visited[otherID]; seen {
					continue
				}
				visited[otherID] = struct{}{}
				next = append(next, otherID)
				order = append(order, otherID)
			}
		}
		frontier = next
	}

	return s.resolveMany(ctx, order)
}

func (s *Service) othersByCategory(ctx context.Context, personID, category string) ([]person.Person, error) {
	if _, err := s.people.Get(ctx, personID); err != nil {
		return nil, err
	}

	edges, err := s.repo.ListByPerson(ctx, personID, category, true)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(edges))
	var ids []string
	for _, e := range edges {
		otherID := e.OtherPerson(personID)
		if otherID == "" {
			continue
		}
		if _, ok := seen[otherID]; ok {
			continue
		}
		seen[otherID] = struct{}{}
		ids = append(ids, otherID)
	}
	return s.resolveMany(ctx, ids)
}

// resolveMany fetches people in bulk and hands them back in the order the
// ids were discovered.
func (s *Service) resolveMany(ctx context.Context, ids []string) ([]person.Person, error) {
	if len(ids) == 0 {
		return []person.Person{}, nil
	}
	people, err := s.people.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]person.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}
	out := make([]person.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
