package relationship

import (
	"context"
	"strings"
	"time"
)

// DisplayEntry is a relationship seen from one person's point of view,
// with the other endpoint resolved and a readable description.
type DisplayEntry struct {
	ID                   string     `json:"id"`
	OtherPersonID        string     `json:"other_person_id"`
	OtherPersonName      string     `json:"other_person_name"`
	Category             string     `json:"relationship_category"`
	GenerationDifference *int       `json:"generation_difference,omitempty"`
	Subtype              string     `json:"relationship_subtype,omitempty"`
	Description          string     `json:"description"`
	IsActive             bool       `json:"is_active"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	Notes                string     `json:"notes,omitempty"`
}

// ListForPersonDisplay returns the person's relationships interpreted from
// their perspective: the same family_line edge reads "Parent" for one
// endpoint and "Child" for the other.
func (s *Service) ListForPersonDisplay(ctx context.Context, personID string) ([]DisplayEntry, error) {
	edges, err := s.ListForPerson(ctx, personID, "")
	if err != nil {
		return nil, err
	}

	var otherIDs []string
	for _, e := range edges {
		if otherID := e.OtherPerson(personID); otherID != "" {
			otherIDs = append(otherIDs, otherID)
		}
	}
	others, err := s.resolveMany(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(others))
	for _, p := range others {
		names[p.ID] = p.FullName()
	}

	entries := make([]DisplayEntry, 0, len(edges))
	for _, e := range edges {
		otherID := e.OtherPerson(personID)
		name, ok := names[otherID]
		if !ok {
			// Dangling endpoint; skip rather than show a hole.
			continue
		}
		entries = append(entries, DisplayEntry{
			ID:                   e.ID,
			OtherPersonID:        otherID,
			OtherPersonName:      name,
			Category:             e.Category,
			GenerationDifference: e.GenerationDifference,
			Subtype:              e.Subtype,
			Description:          describe(&e, e.FromPersonID == personID),
			IsActive:             e.IsActive,
			StartDate:            e.StartDate,
			EndDate:              e.EndDate,
			Notes:                e.Notes,
		})
	}
	return entries, nil
}

func describe(rel *Relationship, fromPerspective bool) string {
	switch rel.Category {
	case CategoryFamilyLine:
		subtype := rel.Subtype
		if subtype == "" {
			subtype = "biological"
		}
		if rel.GenerationDifference == nil {
			return "Family Line (" + subtype + ")"
		}
		parentOfOther := *rel.GenerationDifference == GenerationParent
		if !fromPerspective {
			parentOfOther = !parentOfOther
		}
		if parentOfOther {
			return "Parent (" + subtype + ")"
		}
		return "Child (" + subtype + ")"
	case CategoryPartner:
		return withSubtype("Partner", rel.Subtype)
	case CategorySibling:
		return withSubtype("Sibling", rel.Subtype)
	case CategoryExtendedFamily:
		return withSubtype("Extended Family", rel.Subtype)
	default:
		return titleCase(rel.Category)
	}
}

func withSubtype(label, subtype string) string {
	if subtype == "" {
		return label
	}
	return label + " (" + subtype + ")"
}

func titleCase(category string) string {
	words := strings.Split(strings.ReplaceAll(category, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
