package relationship

import (
	"context"
	"fmt"
)

const (
	ProposalSibling     = "sibling"
	ProposalGrandparent = "grandparent"

	ConfidenceHigh = "high"
)

// InferMissing scans a tree's relationships and proposes edges the data
// implies but nobody recorded. It never writes; accepting a proposal is a
// separate, explicit create call.
//
// Rules:
//   - two children of the same parent with no sibling edge between them
//   - a parent-of-parent chain with no grandparent edge between its ends
func (s *Service) InferMissing(ctx context.Context, treeID string) ([]Proposal, error) {
	edges, err := s.repo.ListByTree(ctx, treeID)
	if err != nil {
		return nil, err
	}

	var parentOrder []string
	children := make(map[string][]string)
	siblingPairs := make(map[pairKey]struct{})
	grandparentPairs := make(map[pairKey]struct{})

	for _, e := range edges {
		switch e.Category {
		case CategoryFamilyLine:
			if !e.IsActive {
				continue
			}
			parentID, childID, ok := e.ParentChild()
			if !ok {
				continue
			}
			if _, known := children[parentID]; !known {
				parentOrder = append(parentOrder, parentID)
			}
			children[parentID] = appendUnique(children[parentID], childID)
		case CategorySibling:
			siblingPairs[keyFor(e.FromPersonID, e.ToPersonID)] = struct{}{}
		case CategoryExtendedFamily:
			if e.Subtype == SubtypeGrandparent || e.Subtype == SubtypeGrandchild {
				grandparentPairs[keyFor(e.FromPersonID, e.ToPersonID)] = struct{}{}
			}
		}
	}

	proposals := []Proposal{}
	proposedSiblings := make(map[pairKey]struct{})
	proposedGrandparents := make(map[pairKey]struct{})

	for _, parentID := range parentOrder {
		kids := children[parentID]
		for i := 0; i < len(kids); i++ {
			for j := i + 1; j < len(kids); j++ {
				key := keyFor(kids[i], kids[j])
				if _, ok := siblingPairs[key]; ok {
					continue
				}
				if _, ok := proposedSiblings[key]; ok {
					continue
				}
				proposedSiblings[key] = struct{}{}
				proposals = append(proposals, Proposal{
					Type:       ProposalSibling,
					Person1ID:  kids[i],
					Person2ID:  kids[j],
					Confidence: ConfidenceHigh,
					Reason:     fmt.Sprintf("both are children of the same parent (%s)", parentID),
				})
			}
		}
	}

	for _, grandparentID := range parentOrder {
		for _, parentID := range children[grandparentID] {
			for _, grandchildID := range children[parentID] {
				if grandchildID == grandparentID {
					continue
				}
				key := keyFor(grandparentID, grandchildID)
				if _, ok := grandparentPairs[key]; ok {
					continue
				}
				if _, ok := proposedGrandparents[key]; ok {
					continue
				}
				proposedGrandparents[key] = struct{}{}
				proposals = append(proposals, Proposal{
					Type:       ProposalGrandparent,
					Person1ID:  grandparentID,
					Person2ID:  grandchildID,
					Confidence: ConfidenceHigh,
					Reason:     fmt.Sprintf("linked through the parent chain via %s", parentID),
				})
			}
		}
	}

	return proposals, nil
}

type pairKey struct {
	a, b string
}

func keyFor(person1ID, person2ID string) pairKey {
	if person1ID > person2ID {
		person1ID, person2ID = person2ID, person1ID
	}
	return pairKey{a: person1ID, b: person2ID}
}

func appendUnique(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}
