package tree

import (
	"context"
	"errors"
	"time"

	treedomain "family-tree-go/internal/domain/tree"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	treesCollection         = "family_trees"
	peopleCollection        = "people"
	relationshipsCollection = "relationships"
)

type treeDoc struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDoc(t *treedomain.FamilyTree) treeDoc {
	return treeDoc{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromDoc(d treeDoc) treedomain.FamilyTree {
	return treedomain.FamilyTree{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type MongoRepository struct {
	db      *mongo.Database
	sessCtx mongo.SessionContext
}

func NewMongo(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) collection() *mongo.Collection {
	return r.db.Collection(treesCollection)
}

// context prefers the session context so calls made inside Transaction stay
// on the transaction.
func (r *MongoRepository) context(ctx context.Context) context.Context {
	if r.sessCtx != nil {
		return r.sessCtx
	}
	return ctx
}

func (r *MongoRepository) Transaction(ctx context.Context, fn func(treedomain.Repository) error) error {
	if r.sessCtx != nil {
		return fn(r)
	}
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&MongoRepository{db: r.db, sessCtx: sc})
	})
	return err
}

func (r *MongoRepository) Get(ctx context.Context, treeID string) (*treedomain.FamilyTree, error) {
	var doc treeDoc
	err := r.collection().FindOne(r.context(ctx), bson.M{"_id": treeID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, treedomain.ErrTreeNotFound
	}
	if err != nil {
		return nil, err
	}
	t := fromDoc(doc)
	return &t, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]treedomain.FamilyTree, error) {
	cursor, err := r.collection().Find(r.context(ctx), bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []treeDoc
	if err := cursor.All(r.context(ctx), &docs); err != nil {
		return nil, err
	}

	trees := make([]treedomain.FamilyTree, 0, len(docs))
	for _, d := range docs {
		trees = append(trees, fromDoc(d))
	}
	return trees, nil
}

func (r *MongoRepository) Create(ctx context.Context, t *treedomain.FamilyTree) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.collection().InsertOne(r.context(ctx), toDoc(t))
	return err
}

func (r *MongoRepository) Update(ctx context.Context, t *treedomain.FamilyTree) error {
	t.UpdatedAt = time.Now().UTC()
	result, err := r.collection().ReplaceOne(r.context(ctx), bson.M{"_id": t.ID}, toDoc(t))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return treedomain.ErrTreeNotFound
	}
	return nil
}

// Delete removes the tree and cascades over its people and their edges;
// the document store has no foreign keys to do it for us.
func (r *MongoRepository) Delete(ctx context.Context, treeID string) error {
	ctx = r.context(ctx)
	if _, err := r.db.Collection(relationshipsCollection).DeleteMany(ctx, bson.M{"family_tree_id": treeID}); err != nil {
		return err
	}
	if _, err := r.db.Collection(peopleCollection).DeleteMany(ctx, bson.M{"family_tree_id": treeID}); err != nil {
		return err
	}
	_, err := r.collection().DeleteOne(ctx, bson.M{"_id": treeID})
	return err
}

func (r *MongoRepository) Exists(ctx context.Context, treeID string) (bool, error) {
	count, err := r.collection().CountDocuments(r.context(ctx), bson.M{"_id": treeID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
