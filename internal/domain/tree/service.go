package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	OwnerID     string
	Name        string
	Description string
}

type UpdateInput struct {
	Name        *string
	Description *string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*FamilyTree, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	t := FamilyTree{
		ID:          uuid.New().String(),
		OwnerID:     input.OwnerID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Get(ctx context.Context, treeID string) (*FamilyTree, error) {
	return s.repo.Get(ctx, treeID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]FamilyTree, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, treeID string, input UpdateInput) (*FamilyTree, error) {
	var result FamilyTree
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		t, err := tx.Get(ctx, treeID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("name is required")
			}
			t.Name = name
		}
		if input.Description != nil {
			t.Description = strings.TrimSpace(*input.Description)
		}

		if err := tx.Update(ctx, t); err != nil {
			return err
		}
		result = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a tree together with its people and their relationships.
// The cascade itself lives in the storage layer.
func (s *Service) Delete(ctx context.Context, treeID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.Get(ctx, treeID); err != nil {
			return err
		}
		return tx.Delete(ctx, treeID)
	})
}

func (s *Service) Exists(ctx context.Context, treeID string) (bool, error) {
	return s.repo.Exists(ctx, treeID)
}
