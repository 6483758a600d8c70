package person

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-tree-go/internal/domain/tree"
	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	trees TreeChecker
}

func NewService(repo Repository, trees TreeChecker) *Service {
	return &Service{repo: repo, trees: trees}
}

type CreateInput struct {
	TreeID     string
	FirstName  string
	LastName   string
	MaidenName string
	BirthDate  *time.Time
	DeathDate  *time.Time
	BirthPlace string
	DeathPlace string
	Bio        string
	PhotoURL   string
}

type UpdateInput struct {
	FirstName  *string
	LastName   *string
	MaidenName *string
	BirthDate  *time.Time
	DeathDate  *time.Time
	BirthPlace *string
	DeathPlace *string
	Bio        *string
	PhotoURL   *string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Person, error) {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, fmt.Errorf("first_name is required")
	}

	exists, err := s.trees.Exists(ctx, input.TreeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, tree.ErrTreeNotFound
	}

	if err := validateDates(input.BirthDate, input.DeathDate); err != nil {
		return nil, err
	}

	p := Person{
		ID:         uuid.New().String(),
		TreeID:     input.TreeID,
		FirstName:  firstName,
		LastName:   strings.TrimSpace(input.LastName),
		MaidenName: strings.TrimSpace(input.MaidenName),
		BirthDate:  input.BirthDate,
		DeathDate:  input.DeathDate,
		BirthPlace: strings.TrimSpace(input.BirthPlace),
		DeathPlace: strings.TrimSpace(input.DeathPlace),
		Bio:        input.Bio,
		PhotoURL:   strings.TrimSpace(input.PhotoURL),
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Get(ctx context.Context, personID string) (*Person, error) {
	return s.repo.Get(ctx, personID)
}

func (s *Service) ListByTree(ctx context.Context, treeID string) ([]Person, error) {
	return s.repo.ListByTree(ctx, treeID)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Person, error) {
	if len(ids) == 0 {
		return []Person{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) CountByTree(ctx context.Context, treeID string) (int64, error) {
	return s.repo.CountByTree(ctx, treeID)
}

func (s *Service) Update(ctx context.Context, personID string, input UpdateInput) (*Person, error) {
	var result Person
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		p, err := tx.Get(ctx, personID)
		if err != nil {
			return err
		}

		if input.FirstName != nil {
			firstName := strings.TrimSpace(*input.FirstName)
			if firstName == "" {
				return fmt.Errorf("first_name is required")
			}
			p.FirstName = firstName
		}
		if input.LastName != nil {
			p.LastName = strings.TrimSpace(*input.LastName)
		}
		if input.MaidenName != nil {
			p.MaidenName = strings.TrimSpace(*input.MaidenName)
		}
		if input.BirthDate != nil {
			p.BirthDate = input.BirthDate
		}
		if input.DeathDate != nil {
			p.DeathDate = input.DeathDate
		}
		if input.BirthPlace != nil {
			p.BirthPlace = strings.TrimSpace(*input.BirthPlace)
		}
		if input.DeathPlace != nil {
			p.DeathPlace = strings.TrimSpace(*input.DeathPlace)
		}
		if input.Bio != nil {
			p.Bio = *input.Bio
		}
		if input.PhotoURL != nil {
			p.PhotoURL = strings.TrimSpace(*input.PhotoURL)
		}

		// The invariant is checked against the merged state, so an update
		// touching only one of the two dates cannot sneak past it.
		if err := validateDates(p.BirthDate, p.DeathDate); err != nil {
			return err
		}

		if err := tx.Update(ctx, p); err != nil {
			return err
		}
		result = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a person; their relationship edges go with them via the
// storage layer's cascade.
func (s *Service) Delete(ctx context.Context, personID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.Get(ctx, personID); err != nil {
			return err
		}
		return tx.Delete(ctx, personID)
	})
}

// Age returns the person's age in whole years as of the given date, using
// the death date instead when the person died earlier. Nil when no birth
// date is recorded or the date precedes the birth.
func (s *Service) Age(ctx context.Context, personID string, asOf *time.Time) (*int, error) {
	p, err := s.repo.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	if p.BirthDate == nil {
		return nil, nil
	}

	end := time.Now().UTC()
	if asOf != nil {
		end = *asOf
	}
	if p.DeathDate != nil && end.After(*p.DeathDate) {
		end = *p.DeathDate
	}

	birth := *p.BirthDate
	if end.Before(birth) {
		return nil, nil
	}
	age := end.Year() - birth.Year()
	if end.Month() < birth.Month() ||
		(end.Month() == birth.Month() && end.Day() < birth.Day()) {
		age--
	}
	return &age, nil
}

func validateDates(birth, death *time.Time) error {
	if birth != nil && death != nil && !birth.Before(*death) {
		return ErrInvalidDates
	}
	return nil
}
