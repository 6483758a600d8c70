package relationship

import (
	"context"
	"errors"
	"time"

	persondomain "family-tree-go/internal/domain/person"
	reldomain "family-tree-go/internal/domain/relationship"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	relationshipsCollection = "relationships"
	peopleCollection        = "people"
)

// relationshipDoc denormalizes the tree id so tree-wide scans (path
// finding, inference, statistics) need no join. PairKey is the sorted
// endpoint pair backing the orientation-independent unique index.
type relationshipDoc struct {
	ID                   string     `bson:"_id"`
	TreeID               string     `bson:"family_tree_id"`
	PairKey              string     `bson:"pair_key"`
	FromPersonID         string     `bson:"from_person_id"`
	ToPersonID           string     `bson:"to_person_id"`
	Category             string     `bson:"relationship_category"`
	GenerationDifference *int       `bson:"generation_difference,omitempty"`
	Subtype              string     `bson:"relationship_subtype,omitempty"`
	StartDate            *time.Time `bson:"start_date,omitempty"`
	EndDate              *time.Time `bson:"end_date,omitempty"`
	IsActive             bool       `bson:"is_active"`
	Notes                string     `bson:"notes,omitempty"`
	CreatedAt            time.Time  `bson:"created_at"`
	UpdatedAt            time.Time  `bson:"updated_at"`
}

func toDoc(rel *reldomain.Relationship, treeID string) relationshipDoc {
	return relationshipDoc{
		ID:                   rel.ID,
		TreeID:               treeID,
		PairKey:              pairKeyOf(rel.FromPersonID, rel.ToPersonID),
		FromPersonID:         rel.FromPersonID,
		ToPersonID:           rel.ToPersonID,
		Category:             rel.Category,
		GenerationDifference: rel.GenerationDifference,
		Subtype:              rel.Subtype,
		StartDate:            rel.StartDate,
		EndDate:              rel.EndDate,
		IsActive:             rel.IsActive,
		Notes:                rel.Notes,
		CreatedAt:            rel.CreatedAt,
		UpdatedAt:            rel.UpdatedAt,
	}
}

func fromDoc(d relationshipDoc) reldomain.Relationship {
	return reldomain.Relationship{
		ID:                   d.ID,
		FromPersonID:         d.FromPersonID,
		ToPersonID:           d.ToPersonID,
		Category:             d.Category,
		GenerationDifference: d.GenerationDifference,
		Subtype:              d.Subtype,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		IsActive:             d.IsActive,
		Notes:                d.Notes,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func pairKeyOf(person1ID, person2ID string) string {
	if person1ID > person2ID {
		person1ID, person2ID = person2ID, person1ID
	}
	return person1ID + "|" + person2ID
}

type MongoRepository struct {
	db      *mongo.Database
	sessCtx mongo.SessionContext
}

func NewMongo(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) collection() *mongo.Collection {
	return r.db.Collection(relationshipsCollection)
}

// EnsureIndexes creates the unique indexes that back the duplicate check
// under concurrency: the directed edge itself, and the normalized pair for
// directed categories so opposite-orientation inserts collide too.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "from_person_id", Value: 1},
				{Key: "to_person_id", Value: 1},
				{Key: "relationship_category", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		{
			Keys: bson.D{
				{Key: "pair_key", Value: 1},
				{Key: "relationship_category", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"is_active": true,
					"relationship_category": bson.M{"$in": bson.A{
						reldomain.CategoryFamilyLine,
						reldomain.CategoryExtendedFamily,
					}},
				}),
		},
	})
	return err
}

func (r *MongoRepository) context(ctx context.Context) context.Context {
	if r.sessCtx != nil {
		return r.sessCtx
	}
	return ctx
}

func (r *MongoRepository) Transaction(ctx context.Context, fn func(reldomain.Repository) error) error {
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

func (r *MongoRepository) Create(ctx context.Context, rel *reldomain.Relationship) error {
	ctx = r.context(ctx)

	treeID, err := r.treeOf(ctx, rel.FromPersonID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rel.CreatedAt = now
	rel.UpdatedAt = now
	_, err = r.collection().InsertOne(ctx, toDoc(rel, treeID))
	if mongo.IsDuplicateKeyError(err) {
		return reldomain.ErrConflict
	}
	return err
}

func (r *MongoRepository) Get(ctx context.Context, relationshipID string) (*reldomain.Relationship, error) {
	var doc relationshipDoc
	err := r.collection().FindOne(r.context(ctx), bson.M{"_id": relationshipID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, reldomain.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	rel := fromDoc(doc)
	return &rel, nil
}

func (r *MongoRepository) Update(ctx context.Context, rel *reldomain.Relationship) error {
	ctx = r.context(ctx)

	treeID, err := r.treeOf(ctx, rel.FromPersonID)
	if err != nil {
		return err
	}

	rel.UpdatedAt = time.Now().UTC()
	result, err := r.collection().ReplaceOne(ctx, bson.M{"_id": rel.ID}, toDoc(rel, treeID))
	if mongo.IsDuplicateKeyError(err) {
		return reldomain.ErrConflict
	}
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return reldomain.ErrRelationshipNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, relationshipID string) error {
	_, err := r.collection().DeleteOne(r.context(ctx), bson.M{"_id": relationshipID})
	return err
}

func (r *MongoRepository) ListByPerson(ctx context.Context, personID, category string, activeOnly bool) ([]reldomain.Relationship, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"from_person_id": personID},
			bson.M{"to_person_id": personID},
		},
	}
	if category != "" {
		filter["relationship_category"] = category
	}
	if activeOnly {
		filter["is_active"] = true
	}
	return r.list(r.context(ctx), filter)
}

func (r *MongoRepository) ListByTree(ctx context.Context, treeID string) ([]reldomain.Relationship, error) {
	return r.list(r.context(ctx), bson.M{"family_tree_id": treeID})
}

func (r *MongoRepository) FindBetween(ctx context.Context, person1ID, person2ID, category string, activeOnly bool) ([]reldomain.Relationship, error) {
	filter := bson.M{
		"relationship_category": category,
		"$or": bson.A{
			bson.M{"from_person_id": person1ID, "to_person_id": person2ID},
			bson.M{"from_person_id": person2ID, "to_person_id": person1ID},
		},
	}
	if activeOnly {
		filter["is_active"] = true
	}
	return r.list(r.context(ctx), filter)
}

func (r *MongoRepository) FindDirected(ctx context.Context, fromPersonID, toPersonID, category string) ([]reldomain.Relationship, error) {
	return r.list(r.context(ctx), bson.M{
		"from_person_id":        fromPersonID,
		"to_person_id":          toPersonID,
		"relationship_category": category,
	})
}

func (r *MongoRepository) treeOf(ctx context.Context, personID string) (string, error) {
	var doc struct {
		TreeID string `bson:"family_tree_id"`
	}
	err := r.db.Collection(peopleCollection).
		FindOne(ctx, bson.M{"_id": personID}, options.FindOne().SetProjection(bson.M{"family_tree_id": 1})).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", persondomain.ErrPersonNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.TreeID, nil
}

func (r *MongoRepository) list(ctx context.Context, filter bson.M) ([]reldomain.Relationship, error) {
	cursor, err := r.collection().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []relationshipDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rels := make([]reldomain.Relationship, 0, len(docs))
	for _, d := range docs {
		rels = append(rels, fromDoc(d))
	}
	return rels, nil
}
