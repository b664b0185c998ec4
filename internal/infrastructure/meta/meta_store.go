package meta

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/model"
	"labstore/internal/ports"
)

// Store keeps schema bookkeeping in the schema_meta table.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.MetaStore = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	var row model.SchemaMeta
	if err := s.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: trimmedKey}).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query schema meta by key")
	}
	return row.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	row := model.SchemaMeta{
		Key:       trimmedKey,
		Value:     value,
		UpdatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert schema meta key")
	}
	return nil
}

func checkKey(ctx context.Context, key string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("key is required")
	}
	return trimmed, nil
}
