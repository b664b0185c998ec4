package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
)

var enumDomains = map[string]struct{}{
	schema.EnumCalibrationTypes: {},
	schema.EnumIntegrationTypes: {},
	schema.EnumRegressionTypes:  {},
	schema.EnumControlTypes:     {},
}

// translateConstraint maps store-native constraint failures onto
// lab.ConstraintError. Errors that are not constraint failures pass through.
func translateConstraint(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, lab.ErrConstraintViolation) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502":
			return lab.Violation(entity, pgErr.ColumnName, lab.ConstraintNotNull, "", err)
		case "23503":
			return lab.Violation(entity, pgErr.ColumnName, lab.ConstraintForeignKey, pgErr.ConstraintName, err)
		case "23505":
			return lab.Violation(entity, pgErr.ColumnName, lab.ConstraintUnique, pgErr.ConstraintName, err)
		case "23514":
			return lab.Violation(entity, "", checkKind(pgErr.ConstraintName), pgErr.ConstraintName, err)
		}
	}

	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return lab.Violation(entity, "", lab.ConstraintForeignKey, "", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return lab.Violation(entity, "", lab.ConstraintUnique, "", err)
	}

	// SQLite reports constraints only through the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return lab.Violation(entity, "", lab.ConstraintForeignKey, "", err)
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return lab.Violation(entity, columnAfter(msg, "NOT NULL constraint failed:"), lab.ConstraintNotNull, "", err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return lab.Violation(entity, columnAfter(msg, "UNIQUE constraint failed:"), lab.ConstraintUnique, "", err)
	case strings.Contains(msg, "CHECK constraint failed"):
		name := columnAfter(msg, "CHECK constraint failed:")
		return lab.Violation(entity, "", checkKind(name), name, err)
	case strings.Contains(strings.ToLower(msg), "violates check constraint"):
		return lab.Violation(entity, "", lab.ConstraintCheck, "", err)
	}
	return err
}

func checkKind(constraintName string) lab.ConstraintKind {
	if _, ok := enumDomains[constraintName]; ok {
		return lab.ConstraintEnum
	}
	return lab.ConstraintCheck
}

// columnAfter extracts "col" from messages like "NOT NULL constraint failed: tbl.col".
func columnAfter(msg, marker string) string {
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(msg[idx+len(marker):])
	if end := strings.IndexAny(rest, " ,)"); end >= 0 {
		rest = rest[:end]
	}
	if dot := strings.LastIndex(rest, "."); dot >= 0 {
		rest = rest[dot+1:]
	}
	return rest
}
