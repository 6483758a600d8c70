package person

import (
	"context"
	"errors"

	persondomain "family-tree-go/internal/domain/person"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(persondomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Get(ctx context.Context, personID string) (*persondomain.Person, error) {
	var p persondomain.Person
	if err := r.db.WithContext(ctx).Where("id = ?", personID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, persondomain.ErrPersonNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) ListByTree(ctx context.Context, treeID string) ([]persondomain.Person, error) {
	var people []persondomain.Person
	if err := r.db.WithContext(ctx).
		Where("family_tree_id = ?", treeID).
		Order("first_name asc, last_name asc").
		Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]persondomain.Person, error) {
	if len(ids) == 0 {
		return []persondomain.Person{}, nil
	}
	var people []persondomain.Person
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *persondomain.Person) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostgresRepository) Update(ctx context.Context, p *persondomain.Person) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, personID string) error {
	// Relationship edges touching the person go via ON DELETE CASCADE.
	return r.db.WithContext(ctx).Delete(&persondomain.Person{}, "id = ?", personID).Error
}

func (r *PostgresRepository) CountByTree(ctx context.Context, treeID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&persondomain.Person{}).Where("family_tree_id = ?", treeID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
