package relationship

import (
	"context"
	"errors"

	reldomain "family-tree-go/internal/domain/relationship"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(reldomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, rel *reldomain.Relationship) error {
	err := r.db.WithContext(ctx).Create(rel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The partial unique index on active (from, to, category) caught a
		// concurrent insert that passed the duplicate check first.
		return reldomain.ErrConflict
	}
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, relationshipID string) (*reldomain.Relationship, error) {
	var rel reldomain.Relationship
	if err := r.db.WithContext(ctx).Where("id = ?", relationshipID).First(&rel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reldomain.ErrRelationshipNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rel *reldomain.Relationship) error {
	err := r.db.WithContext(ctx).Save(rel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return reldomain.ErrConflict
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, relationshipID string) error {
	return r.db.WithContext(ctx).Delete(&reldomain.Relationship{}, "id = ?", relationshipID).Error
}

func (r *PostgresRepository) ListByPerson(ctx context.Context, personID, category string, activeOnly bool) ([]reldomain.Relationship, error) {
	query := r.db.WithContext(ctx).
		Where("from_person_id = ? OR to_person_id = ?", personID, personID)
	if category != "" {
		query = query.Where("relationship_category = ?", category)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rels []reldomain.Relationship
	if err := query.Order("created_at asc").Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *PostgresRepository) ListByTree(ctx context.Context, treeID string) ([]reldomain.Relationship, error) {
	var rels []reldomain.Relationship
	if err := r.db.WithContext(ctx).
		Table("relationships").
		Joins("join people on people.id = relationships.from_person_id").
		Where("people.family_tree_id = ?", treeID).
		Order("relationships.created_at asc").
		Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *PostgresRepository) FindBetween(ctx context.Context, person1ID, person2ID, category string, activeOnly bool) ([]reldomain.Relationship, error) {
	query := r.db.WithContext(ctx).
		Where(
			"(from_person_id = ? AND to_person_id = ?) OR (from_person_id = ? AND to_person_id = ?)",
			person1ID, person2ID, person2ID, person1ID,
		).
		Where("relationship_category = ?", category)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rels []reldomain.Relationship
	if err := query.Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *PostgresRepository) FindDirected(ctx context.Context, fromPersonID, toPersonID, category string) ([]reldomain.Relationship, error) {
	var rels []reldomain.Relationship
	if err := r.db.WithContext(ctx).
		Where("from_person_id = ? AND to_person_id = ?", fromPersonID, toPersonID).
		Where("relationship_category = ?", category).
		Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}
