package person

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Get(ctx context.Context, personID string) (*Person, error)
	ListByTree(ctx context.Context, treeID string) ([]Person, error)
	ListByIDs(ctx context.Context, ids []string) ([]Person, error)
	Create(ctx context.Context, p *Person) error
	Update(ctx context.Context, p *Person) error
	Delete(ctx context.Context, personID string) error
	CountByTree(ctx context.Context, treeID string) (int64, error)
}

// TreeChecker is the slice of the tree domain the person service needs.
type TreeChecker interface {
	Exists(ctx context.Context, treeID string) (bool, error)
}
