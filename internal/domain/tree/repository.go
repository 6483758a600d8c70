package tree

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Get(ctx context.Context, treeID string) (*FamilyTree, error)
	ListByOwner(ctx context.Context, ownerID string) ([]FamilyTree, error)
	Create(ctx context.Context, t *FamilyTree) error
	Update(ctx context.Context, t *FamilyTree) error
	Delete(ctx context.Context, treeID string) error
	Exists(ctx context.Context, treeID string) (bool, error)
}
