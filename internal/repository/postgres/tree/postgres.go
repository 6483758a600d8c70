package tree

import (
	"context"
	"errors"

	treedomain "family-tree-go/internal/domain/tree"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(treedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Get(ctx context.Context, treeID string) (*treedomain.FamilyTree, error) {
	var t treedomain.FamilyTree
	if err := r.db.WithContext(ctx).Where("id = ?", treeID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, treedomain.ErrTreeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]treedomain.FamilyTree, error) {
	var trees []treedomain.FamilyTree
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&trees).Error; err != nil {
		return nil, err
	}
	return trees, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *treedomain.FamilyTree) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresRepository) Update(ctx context.Context, t *treedomain.FamilyTree) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, treeID string) error {
	// People and relationships go with the tree via ON DELETE CASCADE.
	return r.db.WithContext(ctx).Delete(&treedomain.FamilyTree{}, "id = ?", treeID).Error
}

func (r *PostgresRepository) Exists(ctx context.Context, treeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&treedomain.FamilyTree{}).Where("id = ?", treeID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
