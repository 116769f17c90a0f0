// Package gateway is the tenant-scoped data access layer over gorm.
// Every read and write is filtered by tenant_id.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when an update or lookup matched no row for the tenant
	ErrNotFound = errors.New("record not found")
	// ErrInvalidIdentifier is returned for column or function names that are not plain identifiers
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Query describes a filtered, ordered select
type Query struct {
	// Filters are equality conditions keyed by column name
	Filters map[string]any
	OrderBy string
	Desc    bool
	// Limit of 0 means no limit
	Limit int
}

// Gateway wraps a gorm handle with tenant-scoped operations
type Gateway struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a gateway over db
func New(db *gorm.DB, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{db: db, log: log}
}

func (g *Gateway) scoped(ctx context.Context, tenantID string) *gorm.DB {
	return g.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
}

func applyFilters(tx *gorm.DB, filters map[string]any) (*gorm.DB, error) {
	cols := make([]string, 0, len(filters))
	for col := range filters {
		if !identifier.MatchString(col) {
			return nil, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: filters[col]})
	}
	return tx, nil
}

// Select loads the tenant's rows matching q into dest, a pointer to a slice of models
func (g *Gateway) Select(ctx context.Context, tenantID string, dest any, q Query) error {
	defer prometheus.TrackDBOperation("select")(time.Now())

	tx, err := applyFilters(g.scoped(ctx, tenantID), q.Filters)
	if err != nil {
		return err
	}
	if q.OrderBy != "" {
		if !identifier.MatchString(q.OrderBy) {
			return fmt.Errorf("%w: order column %q", ErrInvalidIdentifier, q.OrderBy)
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("select: %w", err)
	}
	return nil
}

// Insert creates one row or a slice of rows
func (g *Gateway) Insert(ctx context.Context, rows any) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := g.db.WithContext(ctx).Create(rows).Error; err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// UpdateByID applies updates to the tenant's row with the given id
func (g *Gateway) UpdateByID(ctx context.Context, tenantID string, m any, id string, updates map[string]any) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	for col := range updates {
		if !identifier.MatchString(col) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, col)
		}
	}
	result := g.scoped(ctx, tenantID).Model(m).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertByTenant inserts row or, when the tenant already owns one, overwrites
// the given columns. The table must have a unique index on tenant_id.
func (g *Gateway) UpsertByTenant(ctx context.Context, row any, columns ...string) error {
	defer prometheus.TrackDBOperation("upsert")(time.Now())

	for _, col := range columns {
		if !identifier.MatchString(col) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, col)
		}
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// DeleteWhere removes the tenant's rows of model m matching filters
func (g *Gateway) DeleteWhere(ctx context.Context, tenantID string, m any, filters map[string]any) (int64, error) {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	tx, err := applyFilters(g.scoped(ctx, tenantID), filters)
	if err != nil {
		return 0, err
	}
	result := tx.Delete(m)
	if result.Error != nil {
		return 0, fmt.Errorf("delete: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ReplaceAll deletes every row of model m owned by the tenant and inserts rows,
// in one transaction
func (g *Gateway) ReplaceAll(ctx context.Context, tenantID string, m any, rows any) error {
	defer prometheus.TrackDBOperation("replace")(time.Now())

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(m).Error; err != nil {
			return fmt.Errorf("replace delete: %w", err)
		}
		if v := reflect.ValueOf(rows); v.Kind() == reflect.Slice && v.Len() == 0 {
			return nil
		}
		if err := tx.Create(rows).Error; err != nil {
			return fmt.Errorf("replace insert: %w", err)
		}
		return nil
	})
}

// CallRPC invokes a stored function with positional args and returns the raw
// column value as the driver delivered it
func (g *Gateway) CallRPC(ctx context.Context, name string, args ...any) (any, error) {
	defer prometheus.TrackDBOperation("rpc")(time.Now())

	if !identifier.MatchString(name) {
		return nil, fmt.Errorf("%w: function %q", ErrInvalidIdentifier, name)
	}
	placeholders := ""
	for i := range args {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
	}

	var raw any
	row := g.db.WithContext(ctx).Raw("SELECT "+name+"("+placeholders+")", args...).Row()
	if err := row.Scan(&raw); err != nil {
		return nil, fmt.Errorf("rpc %s: %w", name, err)
	}
	return raw, nil
}

// FindTenant loads a tenant by id
func (g *Gateway) FindTenant(ctx context.Context, id string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var tenant model.Tenant
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return &tenant, nil
}

// CreateTenant inserts a tenant; its id is populated on return
func (g *Gateway) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	if err := g.Insert(ctx, tenant); err != nil {
		return err
	}
	prometheus.RecordTenantOperation("create")
	return nil
}

// UpdateTenant applies updates to the tenant row itself
func (g *Gateway) UpdateTenant(ctx context.Context, id string, updates map[string]any) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := g.db.WithContext(ctx).Model(&model.Tenant{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	prometheus.RecordTenantOperation("update")
	return nil
}
