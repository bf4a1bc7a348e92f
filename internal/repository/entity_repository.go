package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityRepository is the storage contract shared by every CRM entity kind.
type EntityRepository[R models.Record] interface {
	Create(ctx context.Context, record R) error
	FindByID(ctx context.Context, id string) (R, error)
	List(ctx context.Context, query *ListQuery) ([]R, int64, error)
	// Update writes only the given columns.
	Update(ctx context.Context, id string, changes map[string]any) error
	Delete(ctx context.Context, id string) error
}

// recordPtr constrains R to be *T for a struct T implementing models.Record.
type recordPtr[T any] interface {
	*T
	models.Record
}

type entityRepository[T any, R recordPtr[T]] struct {
	db         *gorm.DB
	preloads   []string
	filterable map[string]bool
}

// NewEntityRepository creates a GORM-backed EntityRepository. preloads are
// the relations expanded on every read; filters are the columns List may
// be scoped by.
func NewEntityRepository[T any, R recordPtr[T]](db *gorm.DB, preloads []string, filters ...string) EntityRepository[R] {
	filterable := make(map[string]bool, len(filters))
	for _, f := range filters {
		filterable[f] = true
	}
	return &entityRepository[T, R]{db: db, preloads: preloads, filterable: filterable}
}

func (r *entityRepository[T, R]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		db = db.Preload(p)
	}
	return db
}

func (r *entityRepository[T, R]) Create(ctx context.Context, record R) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(record).Error)
}

func (r *entityRepository[T, R]) FindByID(ctx context.Context, id string) (R, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var record T
	err := r.withPreloads(conn(ctx, r.db)).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return R(&record), nil
}

func (r *entityRepository[T, R]) List(ctx context.Context, query *ListQuery) ([]R, int64, error) {
	var rows []T
	var total int64

	if err := r.checkFilters(query.Filters); err != nil {
		return nil, 0, err
	}

	db := conn(ctx, r.db).Model(new(T))
	for column, value := range query.Filters {
		if value != "" {
			db = db.Where(column+" = ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	db = r.withPreloads(db).Order("created_at DESC").Order("id")
	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	if err := db.Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}

	records := make([]R, len(rows))
	for i := range rows {
		records[i] = R(&rows[i])
	}
	return records, total, nil
}

// checkFilters rejects columns outside the whitelist and malformed ids.
func (r *entityRepository[T, R]) checkFilters(filters map[string]string) error {
	for column, value := range filters {
		if value == "" {
			continue
		}
		if !r.filterable[column] {
			return fmt.Errorf("%w: %s", ErrUnsupportedFilter, column)
		}
		if strings.HasSuffix(column, "_id") && !validID(value) {
			return fmt.Errorf("%w: %s", ErrInvalidValue, column)
		}
	}
	return nil
}

func (r *entityRepository[T, R]) Update(ctx context.Context, id string, changes map[string]any) error {
	if !validID(id) {
		return ErrNotFound
	}
	if len(changes) == 0 {
		return nil
	}
	result := conn(ctx, r.db).Model(new(T)).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *entityRepository[T, R]) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result := conn(ctx, r.db).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReferenceChecker verifies that related rows exist before they are connected.
type ReferenceChecker interface {
	Exists(ctx context.Context, ref models.Reference) (bool, error)
}

type referenceChecker struct {
	db *gorm.DB
}

// knownTables guards the table names interpolated into existence checks.
var knownTables = map[string]bool{
	models.User{}.TableName():      true,
	models.Lead{}.TableName():      true,
	models.Project{}.TableName():   true,
	models.Inventory{}.TableName(): true,
	models.Meeting{}.TableName():   true,
	models.Visit{}.TableName():     true,
}

func NewReferenceChecker(db *gorm.DB) ReferenceChecker {
	return &referenceChecker{db: db}
}

func (c *referenceChecker) Exists(ctx context.Context, ref models.Reference) (bool, error) {
	if !knownTables[ref.Table] {
		return false, fmt.Errorf("unknown table %q", ref.Table)
	}
	if !validID(ref.ID) {
		return false, nil
	}
	var count int64
	err := conn(ctx, c.db).Table(ref.Table).Where("id = ?", ref.ID).Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
