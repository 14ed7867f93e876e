package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Condition is a composable query predicate applied to a GORM statement.
// Only equality and set-membership conditions are provided; the booking
// ledger never needs anything richer.
type Condition func(tx *gorm.DB) *gorm.DB

// Where matches rows whose column equals value.
func Where(column string, value any) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(fmt.Sprintf("%s = ?", column), value)
	}
}

// WhereIn matches rows whose column is one of values.
func WhereIn(column string, values []string) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(fmt.Sprintf("%s IN ?", column), values)
	}
}

// BaseRepository implements the CRUD and existence/count contract shared by
// every table-backed repository, parameterized by the GORM model type.
type BaseRepository[M any] struct {
	db *gorm.DB
}

// NewBaseRepository creates a BaseRepository for the model type M.
func NewBaseRepository[M any](db *gorm.DB) *BaseRepository[M] {
	return &BaseRepository[M]{db: db}
}

func (r *BaseRepository[M]) query(ctx context.Context, conds []Condition) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(new(M))
	for _, c := range conds {
		tx = c(tx)
	}
	return tx
}

// Add inserts one record.
func (r *BaseRepository[M]) Add(ctx context.Context, entity *M) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Exists reports whether at least one record matches the conditions.
func (r *BaseRepository[M]) Exists(ctx context.Context, conds ...Condition) (bool, error) {
	var count int64
	if err := r.query(ctx, conds).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of records matching the conditions.
func (r *BaseRepository[M]) Count(ctx context.Context, conds ...Condition) (int64, error) {
	var count int64
	if err := r.query(ctx, conds).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// GetAll returns every record matching the conditions, or every record when
// none are given.
func (r *BaseRepository[M]) GetAll(ctx context.Context, conds ...Condition) ([]M, error) {
	var entities []M
	if err := r.query(ctx, conds).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return entities, nil
}

// Get returns the single record matching the conditions. A missing record
// surfaces as gorm.ErrRecordNotFound for the caller to translate.
func (r *BaseRepository[M]) Get(ctx context.Context, conds ...Condition) (*M, error) {
	var entity M
	if err := r.query(ctx, conds).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update persists changes to an existing record.
func (r *BaseRepository[M]) Update(ctx context.Context, entity *M) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

// Delete removes one record by primary key.
func (r *BaseRepository[M]) Delete(ctx context.Context, entity *M) error {
	if err := r.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// DeleteRange removes the given records in one statement inside a
// transaction, so the operation is all-or-nothing.
func (r *BaseRepository[M]) DeleteRange(ctx context.Context, entities []M) error {
	if len(entities) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&entities).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}
