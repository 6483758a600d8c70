package relationship

import (
	"context"

	"family-tree-go/internal/domain/person"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, rel *Relationship) error
	Get(ctx context.Context, relationshipID string) (*Relationship, error)
	Update(ctx context.Context, rel *Relationship) error
	Delete(ctx context.Context, relationshipID string) error

	// ListByPerson returns edges touching personID in either orientation.
	// category "" means all categories; activeOnly filters on is_active.
	ListByPerson(ctx context.Context, personID, category string, activeOnly bool) ([]Relationship, error)

	// ListByTree returns every edge whose endpoints belong to the tree.
	ListByTree(ctx context.Context, treeID string) ([]Relationship, error)

	// FindBetween returns edges of the category between the two people,
	// in either direction.
	FindBetween(ctx context.Context, person1ID, person2ID, category string, activeOnly bool) ([]Relationship, error)

	// FindDirected returns edges of the category going exactly from -> to.
	FindDirected(ctx context.Context, fromPersonID, toPersonID, category string) ([]Relationship, error)
}

// PersonLookup is the person-resolution collaborator; the relationship core
// never reaches into person storage directly.
type PersonLookup interface {
	Get(ctx context.Context, personID string) (*person.Person, error)
	ListByIDs(ctx context.Context, ids []string) ([]person.Person, error)
}
