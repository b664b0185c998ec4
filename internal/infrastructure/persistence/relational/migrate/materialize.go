package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"labstore/internal/bootstrap/logging"
	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/model"
	"labstore/internal/ports"
)

// Report lists what Materialize did to each collection.
type Report struct {
	Created             []string
	Verified            []string
	Fingerprint         string
	PreviousFingerprint string
}

// Materialize creates every declared collection that does not exist yet, in
// dependency order, and verifies the columns of those that do. Running it
// again against the same store changes nothing.
func Materialize(ctx context.Context, db *gorm.DB, h *schema.Handle, meta ports.MetaStore) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "persistence.migrate")
	bindings, err := Bind(db, h)
	if err != nil {
		return Report{}, err
	}

	report := Report{Fingerprint: h.Fingerprint()}
	migrator := db.WithContext(ctx).Migrator()
	for _, b := range bindings {
		name := b.Entity.Name
		if migrator.HasTable(b.Model) {
			if err := verifyCollection(migrator, b); err != nil {
				return report, err
			}
			report.Verified = append(report.Verified, name)
			logging.Debug(logCtx, "collection verified", slog.String("collection", name))
			continue
		}

		if err := migrator.CreateTable(b.Model); err != nil {
			return report, errs.Mark(errs.Wrapf(err, "create collection %s", name), lab.ErrSchemaConflict)
		}
		report.Created = append(report.Created, name)
		logging.Info(logCtx, "collection created", slog.String("collection", name))
	}

	if err := db.WithContext(ctx).AutoMigrate(&model.SchemaMeta{}); err != nil {
		return report, errs.Wrap(err, "migrate schema_meta")
	}
	if err := recordFingerprint(ctx, meta, &report); err != nil {
		return report, err
	}

	if report.PreviousFingerprint != "" && report.PreviousFingerprint != report.Fingerprint {
		logging.Warn(logCtx, "schema fingerprint changed since last materialization",
			slog.String("previous", report.PreviousFingerprint),
			slog.String("current", report.Fingerprint),
		)
	}
	logging.Info(logCtx, "schema materialized",
		slog.Int("created", len(report.Created)),
		slog.Int("verified", len(report.Verified)),
	)
	return report, nil
}

// verifyCollection checks an existing collection against its binding: every
// declared column is present with the declared nullability, and every foreign
// key and enumerated domain is backed by its constraint.
func verifyCollection(migrator gorm.Migrator, b Binding) error {
	var missing []string
	for _, f := range b.Entity.Fields {
		if !migrator.HasColumn(b.Model, f.Name) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return conflictError(b.Entity.Name, "missing columns "+strings.Join(missing, ", "))
	}

	columns, err := migrator.ColumnTypes(b.Model)
	if err != nil {
		return errs.Wrapf(err, "read %s column types", b.Entity.Name)
	}
	for _, col := range columns {
		f, ok := b.Entity.Field(col.Name())
		if !ok || f.PrimaryKey {
			continue
		}
		if nullable, known := col.Nullable(); known && nullable != f.Nullable {
			return conflictError(b.Entity.Name, fmt.Sprintf("column %s nullable=%t, want %t", f.Name, nullable, f.Nullable))
		}
	}

	for _, fk := range b.Entity.ForeignKeys() {
		if !migrator.HasConstraint(b.Model, b.relations[fk.Name]) {
			return conflictError(b.Entity.Name, fmt.Sprintf("column %s has no foreign key to %s", fk.Name, fk.References))
		}
	}
	for _, f := range b.Entity.Fields {
		if f.Type == schema.TypeEnum && !migrator.HasConstraint(b.Model, f.Enum) {
			return conflictError(b.Entity.Name, fmt.Sprintf("column %s has no check constraint %s", f.Name, f.Enum))
		}
	}
	return nil
}

func conflictError(entity, detail string) error {
	return fmt.Errorf("%w: collection %s: %s", lab.ErrSchemaConflict, entity, detail)
}

func recordFingerprint(ctx context.Context, meta ports.MetaStore, report *Report) error {
	if meta == nil {
		return nil
	}
	previous, found, err := meta.Get(ctx, ports.MetaSchemaFingerprint)
	if err != nil {
		return errs.Wrap(err, "read schema fingerprint")
	}
	if found {
		report.PreviousFingerprint = previous
	}
	if err := meta.Set(ctx, ports.MetaSchemaFingerprint, report.Fingerprint); err != nil {
		return errs.Wrap(err, "store schema fingerprint")
	}
	if err := meta.Set(ctx, ports.MetaMaterializedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return errs.Wrap(err, "store materialization time")
	}
	return nil
}
