package relationship

import (
	"context"
	"fmt"
	"strings"

	"family-tree-go/internal/domain/person"
	"github.com/google/uuid"
)

// Policy carries the tunable business rules around relationships.
type Policy struct {
	// PartnerExclusivity rejects a new active partner edge when either
	// endpoint already has one. Off unless configured.
	PartnerExclusivity bool

	// DefaultPathDepth and MaxPathDepth bound the path finder's BFS.
	DefaultPathDepth int
	MaxPathDepth     int

	// MaxGenerations caps recursive ancestor/descendant traversal when the
	// caller does not bound it themselves.
	MaxGenerations int
}

func DefaultPolicy() Policy {
	return Policy{
		PartnerExclusivity: false,
		DefaultPathDepth:   5,
		MaxPathDepth:       10,
		MaxGenerations:     25,
	}
}

type Service struct {
	repo   Repository
	people PersonLookup
	policy Policy
}

func NewService(repo Repository, people PersonLookup, policy Policy) *Service {
	if policy.DefaultPathDepth <= 0 {
		policy.DefaultPathDepth = DefaultPolicy().DefaultPathDepth
	}
	if policy.MaxPathDepth <= 0 {
		policy.MaxPathDepth = DefaultPolicy().MaxPathDepth
	}
	if policy.MaxGenerations <= 0 {
		policy.MaxGenerations = DefaultPolicy().MaxGenerations
	}
	return &Service{repo: repo, people: people, policy: policy}
}

// Create runs the full pipeline: validation, duplicate check, insert and,
// for symmetric categories, the mirror insert. Everything past validation
// happens inside one storage transaction so a reader can never observe a
// half-written reciprocal pair.
func (s *Service) Create(ctx context.Context, c Candidate) (*Relationship, error) {
	c = normalizeCandidate(c)

	from, to, err := s.resolvePair(ctx, c.FromPersonID, c.ToPersonID)
	if err != nil {
		return nil, err
	}
	if err := Validate(from, to, c); err != nil {
		return nil, err
	}

	var result Relationship
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := s.checkDuplicate(ctx, tx, c); err != nil {
			return err
		}
		if err := s.checkPartnerExclusivity(ctx, tx, c); err != nil {
			return err
		}

		rel := Relationship{
			ID:                   uuid.New().String(),
			FromPersonID:         c.FromPersonID,
			ToPersonID:           c.ToPersonID,
			Category:             c.Category,
			GenerationDifference: c.GenerationDifference,
			Subtype:              c.Subtype,
			StartDate:            c.StartDate,
			EndDate:              c.EndDate,
			IsActive:             c.active(),
			Notes:                c.Notes,
		}
		if err := tx.Create(ctx, &rel); err != nil {
			return err
		}

		if Symmetric(rel.Category) {
			if err := tx.Create(ctx, mirrorOf(&rel)); err != nil {
				return err
			}
		}

		result = rel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Get(ctx context.Context, relationshipID string) (*Relationship, error) {
	return s.repo.Get(ctx, relationshipID)
}

// Update merges the patch into the stored edge, re-validates the result
// against the same rules as creation and keeps the mirror row in step.
func (s *Service) Update(ctx context.Context, relationshipID string, patch Patch) (*Relationship, error) {
	var result Relationship
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		rel, err := tx.Get(ctx, relationshipID)
		if err != nil {
			return err
		}
		old := *rel

		// The mirror half of a symmetric pair stores a pinned generation
		// of 0. The pin is internal bookkeeping, not caller input: it is
		// exempt from re-validation and cleared when the edge leaves the
		// symmetric categories.
		pinned := Symmetric(old.Category) && old.GenerationDifference != nil &&
			*old.GenerationDifference == 0

		applyPatch(rel, patch)

		merged := Candidate{
			FromPersonID:         rel.FromPersonID,
			ToPersonID:           rel.ToPersonID,
			Category:             rel.Category,
			GenerationDifference: rel.GenerationDifference,
			Subtype:              rel.Subtype,
		}
		if pinned && patch.GenerationDifference == nil {
			merged.GenerationDifference = nil
			if !Symmetric(rel.Category) {
				rel.GenerationDifference = nil
			}
		}
		if err := ValidateRules(merged); err != nil {
			return err
		}

		if rel.Category != old.Category {
			dups, err := tx.FindBetween(ctx, rel.FromPersonID, rel.ToPersonID, rel.Category, true)
			if err != nil {
				return err
			}
			for _, d := range dups {
				if d.ID != rel.ID {
					return fmt.Errorf("%w (existing id %s)", ErrDuplicateRelationship, d.ID)
				}
			}
		}

		if err := tx.Update(ctx, rel); err != nil {
			return err
		}
		if err := s.reconcileMirror(ctx, tx, &old, rel); err != nil {
			return err
		}

		result = *rel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes the edge and, for symmetric categories, its mirror in the
// same transaction.
func (s *Service) Delete(ctx context.Context, relationshipID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		rel, err := tx.Get(ctx, relationshipID)
		if err != nil {
			return err
		}
		if err := tx.Delete(ctx, rel.ID); err != nil {
			return err
		}
		if !Symmetric(rel.Category) {
			return nil
		}
		mirrors, err := tx.FindDirected(ctx, rel.ToPersonID, rel.FromPersonID, rel.Category)
		if err != nil {
			return err
		}
		for _, m := range mirrors {
			if err := tx.Delete(ctx, m.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ValidateOnly runs the validation and duplicate pipeline without writing
// anything. Rule failures come back as a result, not an error.
func (s *Service) ValidateOnly(ctx context.Context, c Candidate) (ValidationResult, error) {
	c = normalizeCandidate(c)

	err := func() error {
		from, to, err := s.resolvePair(ctx, c.FromPersonID, c.ToPersonID)
		if err != nil {
			return err
		}
		if err := Validate(from, to, c); err != nil {
			return err
		}
		if err := s.checkDuplicate(ctx, s.repo, c); err != nil {
			return err
		}
		return s.checkPartnerExclusivity(ctx, s.repo, c)
	}()

	if err == nil {
		return ValidationResult{Valid: true, Message: "relationship is valid"}, nil
	}
	if IsValidationError(err) {
		return ValidationResult{Valid: false, Message: err.Error()}, nil
	}
	return ValidationResult{}, err
}

// ListForPerson returns the person's active edges in either orientation,
// optionally filtered by category. Symmetric pairs are collapsed to the
// outgoing half so mirrored rows do not show up twice.
func (s *Service) ListForPerson(ctx context.Context, personID, category string) ([]Relationship, error) {
	if _, err := s.people.Get(ctx, personID); err != nil {
		return nil, err
	}
	if category != "" && !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	edges, err := s.repo.ListByPerson(ctx, personID, category, true)
	if err != nil {
		return nil, err
	}

	out := make([]Relationship, 0, len(edges))
	for _, e := range edges {
		if Symmetric(e.Category) && e.FromPersonID != personID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ListForTree returns the tree's edges with each mirrored pair collapsed
// to a single row, so a marriage reads as one relationship, not two.
func (s *Service) ListForTree(ctx context.Context, treeID string) ([]Relationship, error) {
	edges, err := s.repo.ListByTree(ctx, treeID)
	if err != nil {
		return nil, err
	}
	return collapseSymmetric(edges), nil
}

// Statistics aggregates a tree's edges, counting each mirrored pair once.
func (s *Service) Statistics(ctx context.Context, treeID string) (*Statistics, error) {
	edges, err := s.ListForTree(ctx, treeID)
	if err != nil {
		return nil, err
	}

	stats := Statistics{
		ByCategory: make(map[string]int),
		BySubtype:  make(map[string]int),
	}
	for _, e := range edges {
		stats.Total++
		stats.ByCategory[e.Category]++
		if e.Subtype != "" {
			stats.BySubtype[e.Subtype]++
		}
		if e.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return &stats, nil
}

// collapseSymmetric keeps the first row seen for each unordered pair and
// category of a symmetric edge, dropping its mirror.
func collapseSymmetric(edges []Relationship) []Relationship {
	type edgeKey struct {
		pair     pairKey
		category string
	}
	seen := make(map[edgeKey]struct{})
	out := make([]Relationship, 0, len(edges))
	for _, e := range edges {
		if Symmetric(e.Category) {
			key := edgeKey{pair: keyFor(e.FromPersonID, e.ToPersonID), category: e.Category}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}

func (s *Service) resolvePair(ctx context.Context, fromID, toID string) (*person.Person, *person.Person, error) {
	from, err := s.people.Get(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	if fromID == toID {
		// Let the validator produce the self-relationship rejection
		// instead of resolving the same person twice.
		return from, from, nil
	}
	to, err := s.people.Get(ctx, toID)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (s *Service) checkDuplicate(ctx context.Context, repo Repository, c Candidate) error {
	existing, err := repo.FindBetween(ctx, c.FromPersonID, c.ToPersonID, c.Category, true)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w (existing id %s)", ErrDuplicateRelationship, existing[0].ID)
	}
	return nil
}

func (s *Service) checkPartnerExclusivity(ctx context.Context, repo Repository, c Candidate) error {
	if !s.policy.PartnerExclusivity || c.Category != CategoryPartner || !c.active() {
		return nil
	}
	for _, personID := range []string{c.FromPersonID, c.ToPersonID} {
		existing, err := repo.ListByPerson(ctx, personID, CategoryPartner, true)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrActivePartnerExists
		}
	}
	return nil
}

func (s *Service) reconcileMirror(ctx context.Context, tx Repository, old, updated *Relationship) error {
	if !Symmetric(old.Category) && !Symmetric(updated.Category) {
		return nil
	}

	var mirror *Relationship
	if Symmetric(old.Category) {
		mirrors, err := tx.FindDirected(ctx, old.ToPersonID, old.FromPersonID, old.Category)
		if err != nil {
			return err
		}
		if len(mirrors) > 0 {
			mirror = &mirrors[0]
		}
	}

	switch {
	case Symmetric(updated.Category):
		if mirror == nil {
			return tx.Create(ctx, mirrorOf(updated))
		}
		next := mirrorOf(updated)
		next.ID = mirror.ID
		next.CreatedAt = mirror.CreatedAt
		// The counterpart keeps its own generation, so updating through
		// the mirror half does not pin 0 onto the primary row.
		next.GenerationDifference = mirror.GenerationDifference
		return tx.Update(ctx, next)
	default:
		if mirror != nil {
			return tx.Delete(ctx, mirror.ID)
		}
		return nil
	}
}

// mirrorOf builds the reciprocal row for a symmetric edge: endpoints
// swapped, generation pinned to 0, everything else carried over.
func mirrorOf(rel *Relationship) *Relationship {
	zero := 0
	return &Relationship{
		ID:                   uuid.New().String(),
		FromPersonID:         rel.ToPersonID,
		ToPersonID:           rel.FromPersonID,
		Category:             rel.Category,
		GenerationDifference: &zero,
		Subtype:              rel.Subtype,
		StartDate:            rel.StartDate,
		EndDate:              rel.EndDate,
		IsActive:             rel.IsActive,
		Notes:                rel.Notes,
	}
}

func normalizeCandidate(c Candidate) Candidate {
	c.Category = strings.TrimSpace(strings.ToLower(c.Category))
	c.Subtype = strings.TrimSpace(strings.ToLower(c.Subtype))
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

func applyPatch(rel *Relationship, patch Patch) {
	if patch.Category != nil {
		newCategory := strings.TrimSpace(strings.ToLower(*patch.Category))
		if newCategory != CategoryFamilyLine && rel.Category == CategoryFamilyLine && patch.GenerationDifference == nil {
			// Leaving family_line makes the stored generation meaningless.
			rel.GenerationDifference = nil
		}
		rel.Category = newCategory
	}
	if patch.GenerationDifference != nil {
		gen := *patch.GenerationDifference
		rel.GenerationDifference = &gen
	}
	if patch.Subtype != nil {
		rel.Subtype = strings.TrimSpace(strings.ToLower(*patch.Subtype))
	}
	if patch.StartDate != nil {
		rel.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		rel.EndDate = patch.EndDate
	}
	if patch.IsActive != nil {
		rel.IsActive = *patch.IsActive
	}
	if patch.Notes != nil {
		rel.Notes = strings.TrimSpace(*patch.Notes)
	}
}
