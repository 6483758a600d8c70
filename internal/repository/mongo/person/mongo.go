package person

import (
	"context"
	"errors"
	"time"

	persondomain "family-tree-go/internal/domain/person"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	peopleCollection        = "people"
	relationshipsCollection = "relationships"
)

type personDoc struct {
	ID         string     `bson:"_id"`
	TreeID     string     `bson:"family_tree_id"`
	FirstName  string     `bson:"first_name"`
	LastName   string     `bson:"last_name,omitempty"`
	MaidenName string     `bson:"maiden_name,omitempty"`
	BirthDate  *time.Time `bson:"birth_date,omitempty"`
	DeathDate  *time.Time `bson:"death_date,omitempty"`
	BirthPlace string     `bson:"birth_place,omitempty"`
	DeathPlace string     `bson:"death_place,omitempty"`
	Bio        string     `bson:"bio,omitempty"`
	PhotoURL   string     `bson:"profile_photo_url,omitempty"`
	CreatedAt  time.Time  `bson:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at"`
}

func toDoc(p *persondomain.Person) personDoc {
	return personDoc{
		ID:         p.ID,
		TreeID:     p.TreeID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MaidenName: p.MaidenName,
		BirthDate:  p.BirthDate,
		DeathDate:  p.DeathDate,
		BirthPlace: p.BirthPlace,
		DeathPlace: p.DeathPlace,
		Bio:        p.Bio,
		PhotoURL:   p.PhotoURL,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromDoc(d personDoc) persondomain.Person {
	return persondomain.Person{
		ID:         d.ID,
		TreeID:     d.TreeID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		MaidenName: d.MaidenName,
		BirthDate:  d.BirthDate,
		DeathDate:  d.DeathDate,
		BirthPlace: d.BirthPlace,
		DeathPlace: d.DeathPlace,
		Bio:        d.Bio,
		PhotoURL:   d.PhotoURL,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
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
	return r.db.Collection(peopleCollection)
}

func (r *MongoRepository) context(ctx context.Context) context.Context {
	if r.sessCtx != nil {
		return r.sessCtx
	}
	return ctx
}

func (r *MongoRepository) Transaction(ctx context.Context, fn func(persondomain.Repository) error) error {
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

func (r *MongoRepository) Get(ctx context.Context, personID string) (*persondomain.Person, error) {
	var doc personDoc
	err := r.collection().FindOne(r.context(ctx), bson.M{"_id": personID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, persondomain.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	p := fromDoc(doc)
	return &p, nil
}

func (r *MongoRepository) ListByTree(ctx context.Context, treeID string) ([]persondomain.Person, error) {
	return r.list(r.context(ctx), bson.M{"family_tree_id": treeID},
		options.Find().SetSort(bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}))
}

func (r *MongoRepository) ListByIDs(ctx context.Context, ids []string) ([]persondomain.Person, error) {
	if len(ids) == 0 {
		return []persondomain.Person{}, nil
	}
	return r.list(r.context(ctx), bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoRepository) Create(ctx context.Context, p *persondomain.Person) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.collection().InsertOne(r.context(ctx), toDoc(p))
	return err
}

func (r *MongoRepository) Update(ctx context.Context, p *persondomain.Person) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.collection().ReplaceOne(r.context(ctx), bson.M{"_id": p.ID}, toDoc(p))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return persondomain.ErrPersonNotFound
	}
	return nil
}

// Delete removes the person and every relationship edge touching them.
func (r *MongoRepository) Delete(ctx context.Context, personID string) error {
	ctx = r.context(ctx)
	_, err := r.db.Collection(relationshipsCollection).DeleteMany(ctx, bson.M{
		"$or": bson.A{
			bson.M{"from_person_id": personID},
			bson.M{"to_person_id": personID},
		},
	})
	if err != nil {
		return err
	}
	_, err = r.collection().DeleteOne(ctx, bson.M{"_id": personID})
	return err
}

func (r *MongoRepository) CountByTree(ctx context.Context, treeID string) (int64, error) {
	return r.collection().CountDocuments(r.context(ctx), bson.M{"family_tree_id": treeID})
}

func (r *MongoRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]persondomain.Person, error) {
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []personDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	people := make([]persondomain.Person, 0, len(docs))
	for _, d := range docs {
		people = append(people, fromDoc(d))
	}
	return people, nil
}
