package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labstore/internal/bootstrap/logging"
	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/model"
	"labstore/internal/ports"
)

// table is the CRUD core shared by every entity repository. E is the domain
// record and R its row model. Foreign keys and restrict-on-delete rules come
// from the schema descriptor.
type table[E any, R any] struct {
	db       *gorm.DB
	entity   schema.Entity
	children []schema.ChildRef

	toRow   func(E) R
	fromRow func(R) E
	idOf    func(E) uint64
	// prepare applies defaults and validates a record before any write.
	prepare func(E) (E, error)
	// refs returns the record's foreign key values by column name.
	refs func(E) map[string]uint64
}

func newTable[E any, R any](db *gorm.DB, h *schema.Handle, name string) (*table[E, R], error) {
	entity, ok := h.Entity(name)
	if !ok {
		return nil, fmt.Errorf("%w: entity %q not declared", lab.ErrSchemaDefinition, name)
	}
	return &table[E, R]{db: db, entity: entity, children: h.Children(name)}, nil
}

func (t *table[E, R]) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return t.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (t *table[E, R]) Create(ctx context.Context, record E) (E, error) {
	var zero E
	db, err := t.dbFromContext(ctx)
	if err != nil {
		return zero, err
	}

	record, err = t.prepare(record)
	if err != nil {
		return zero, err
	}
	if id := t.idOf(record); id > math.MaxInt64 {
		return zero, lab.Violation(t.entity.Name, "id", lab.ConstraintCheck, fmt.Sprintf("id %d out of range", id), nil)
	}

	row := t.toRow(record)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := t.checkParents(tx, record); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&row).Error
	})
	if err != nil {
		return zero, t.writeError("insert", err)
	}

	logging.Debug(
		logging.WithComponent(ctx, "persistence.repository"),
		"record created",
		slog.String("entity", t.entity.Name),
	)
	return t.fromRow(row), nil
}

func (t *table[E, R]) Get(ctx context.Context, id uint64) (E, error) {
	var zero E
	db, err := t.dbFromContext(ctx)
	if err != nil {
		return zero, err
	}

	if !storable(id) {
		return zero, t.notFound(id)
	}

	var row R
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, t.notFound(id)
		}
		return zero, errs.Wrapf(err, "query %s", t.entity.Name)
	}
	return t.fromRow(row), nil
}

// list returns rows ordered by id; a non-zero parentID restricts to rows
// whose parentColumn equals it.
func (t *table[E, R]) list(ctx context.Context, parentColumn string, parentID uint64) ([]E, error) {
	db, err := t.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if parentID > math.MaxInt64 {
		return []E{}, nil
	}

	query := db.Model(new(R))
	if parentColumn != "" && parentID != 0 {
		query = query.Where(clause.Eq{Column: clause.Column{Name: parentColumn}, Value: parentID})
	}

	var rows []R
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrapf(err, "query %s list", t.entity.Name)
	}

	items := make([]E, 0, len(rows))
	for _, row := range rows {
		items = append(items, t.fromRow(row))
	}
	return items, nil
}

func (t *table[E, R]) Update(ctx context.Context, record E) error {
	db, err := t.dbFromContext(ctx)
	if err != nil {
		return err
	}

	id := t.idOf(record)
	if !storable(id) {
		return t.notFound(id)
	}
	record, err = t.prepare(record)
	if err != nil {
		return err
	}

	row := t.toRow(record)
	var affected int64
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := t.checkParents(tx, record); err != nil {
			return err
		}
		res := tx.Model(new(R)).
			Where("id = ?", id).
			Select("*").
			Omit("id", clause.Associations).
			Updates(&row)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return t.writeError("update", err)
	}
	if affected == 0 {
		return t.notFound(id)
	}
	return nil
}

func (t *table[E, R]) Delete(ctx context.Context, id uint64) error {
	db, err := t.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if !storable(id) {
		return t.notFound(id)
	}

	var affected int64
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := t.checkChildren(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(new(R))
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return t.writeError("delete", err)
	}
	if affected == 0 {
		return t.notFound(id)
	}
	return nil
}

func (t *table[E, R]) Count(ctx context.Context) (int64, error) {
	db, err := t.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := db.Model(new(R)).Count(&n).Error; err != nil {
		return 0, errs.Wrapf(err, "count %s", t.entity.Name)
	}
	return n, nil
}

func (t *table[E, R]) checkParents(tx *gorm.DB, record E) error {
	if t.refs == nil {
		return nil
	}
	values := t.refs(record)
	for _, fk := range t.entity.ForeignKeys() {
		id := values[fk.Name]
		if id == 0 {
			return lab.Violation(t.entity.Name, fk.Name, lab.ConstraintNotNull, "reference is required", nil)
		}
		if !storable(id) {
			return lab.Violation(t.entity.Name, fk.Name, lab.ConstraintForeignKey,
				fmt.Sprintf("%s %d does not exist", fk.References, id), nil)
		}
		parent, ok := model.ForEntity(fk.References)
		if !ok {
			return fmt.Errorf("%w: no model for %q", lab.ErrSchemaDefinition, fk.References)
		}
		var n int64
		if err := tx.Model(parent).Where("id = ?", id).Count(&n).Error; err != nil {
			return errs.Wrapf(err, "check %s reference", fk.References)
		}
		if n == 0 {
			return lab.Violation(t.entity.Name, fk.Name, lab.ConstraintForeignKey,
				fmt.Sprintf("%s %d does not exist", fk.References, id), nil)
		}
	}
	return nil
}

func (t *table[E, R]) checkChildren(tx *gorm.DB, id uint64) error {
	for _, child := range t.children {
		childModel, ok := model.ForEntity(child.Entity)
		if !ok {
			return fmt.Errorf("%w: no model for %q", lab.ErrSchemaDefinition, child.Entity)
		}
		var n int64
		if err := tx.Model(childModel).
			Where(clause.Eq{Column: clause.Column{Name: child.Field}, Value: id}).
			Count(&n).Error; err != nil {
			return errs.Wrapf(err, "count %s children", child.Entity)
		}
		if n > 0 {
			return lab.Violation(t.entity.Name, "id", lab.ConstraintRestrict,
				fmt.Sprintf("%d %s record(s) still reference %s %d", n, child.Entity, t.entity.Name, id), nil)
		}
	}
	return nil
}

// storable reports whether id can name a stored row. Generated ids are
// positive and database/sql cannot bind uint64 values above MaxInt64.
func storable(id uint64) bool {
	return id != 0 && id <= math.MaxInt64
}

func (t *table[E, R]) notFound(id uint64) error {
	return errs.Mark(fmt.Errorf("%s %d", t.entity.Name, id), lab.ErrNotFound)
}

func (t *table[E, R]) writeError(op string, err error) error {
	translated := translateConstraint(t.entity.Name, err)
	if errors.Is(translated, lab.ErrConstraintViolation) {
		return translated
	}
	return errs.Wrapf(translated, "%s %s", op, t.entity.Name)
}
