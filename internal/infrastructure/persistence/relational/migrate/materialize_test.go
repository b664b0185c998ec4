package migrate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/database"
	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/infrastructure/meta"
	"labstore/internal/ports"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "lab.sqlite")
	db, err := database.Open(context.Background(), config.DatabaseConfig{Driver: database.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func mustDefine(t *testing.T) *schema.Handle {
	t.Helper()

	h, err := schema.Define()
	if err != nil {
		t.Fatalf("schema.Define() error = %v", err)
	}
	return h
}

func TestMaterializeCreatesEveryCollectionInOrder(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)
	ctx := context.Background()

	report, err := Materialize(ctx, db, h, meta.NewStore(db))
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	want := []string{
		lab.EntityCalibration,
		lab.EntitySample,
		lab.EntityCompound,
		lab.EntityAuditEntry,
		lab.EntityCalibrant,
		lab.EntityQualityControl,
	}
	if len(report.Created) != len(want) {
		t.Fatalf("Created = %v, want %v", report.Created, want)
	}
	for i := range want {
		if report.Created[i] != want[i] {
			t.Fatalf("Created[%d] = %q, want %q", i, report.Created[i], want[i])
		}
		if !db.Migrator().HasTable(want[i]) {
			t.Fatalf("table %q missing after Materialize", want[i])
		}
	}
	if !db.Migrator().HasTable("schema_meta") {
		t.Fatalf("schema_meta missing after Materialize")
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)
	store := meta.NewStore(db)
	ctx := context.Background()

	if _, err := Materialize(ctx, db, h, store); err != nil {
		t.Fatalf("first Materialize() error = %v", err)
	}
	report, err := Materialize(ctx, db, h, store)
	if err != nil {
		t.Fatalf("second Materialize() error = %v", err)
	}
	if len(report.Created) != 0 {
		t.Fatalf("second run Created = %v, want none", report.Created)
	}
	if len(report.Verified) != len(h.Entities()) {
		t.Fatalf("second run Verified = %v", report.Verified)
	}
	if report.PreviousFingerprint != h.Fingerprint() {
		t.Fatalf("PreviousFingerprint = %q, want %q", report.PreviousFingerprint, h.Fingerprint())
	}

	var tables int64
	if err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", lab.EntitySample).Scan(&tables).Error; err != nil {
		t.Fatalf("count sample tables: %v", err)
	}
	if tables != 1 {
		t.Fatalf("sample tables = %d, want 1", tables)
	}

	fingerprint, found, err := store.Get(ctx, ports.MetaSchemaFingerprint)
	if err != nil || !found || fingerprint != h.Fingerprint() {
		t.Fatalf("stored fingerprint = %q, %v, %v", fingerprint, found, err)
	}
	if _, found, err := store.Get(ctx, ports.MetaMaterializedAt); err != nil || !found {
		t.Fatalf("materialized_at found=%v err=%v", found, err)
	}
}

func TestMaterializeDetectsIncompatibleCollection(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)

	if err := db.Exec("CREATE TABLE sample (id INTEGER PRIMARY KEY)").Error; err != nil {
		t.Fatalf("create conflicting table: %v", err)
	}

	_, err := Materialize(context.Background(), db, h, meta.NewStore(db))
	if !errors.Is(err, lab.ErrSchemaConflict) {
		t.Fatalf("Materialize() error = %v, want ErrSchemaConflict", err)
	}
}

// plainTable creates entity with every declared column but none of the
// declared constraints; columns listed in required get NOT NULL.
func plainTable(t *testing.T, db *gorm.DB, h *schema.Handle, name string, required ...string) {
	t.Helper()

	entity, ok := h.Entity(name)
	if !ok {
		t.Fatalf("entity %q not declared", name)
	}
	notNull := map[string]bool{}
	for _, r := range required {
		notNull[r] = true
	}

	cols := make([]string, 0, len(entity.Fields))
	for _, f := range entity.Fields {
		col := fmt.Sprintf("%q text", f.Name)
		switch {
		case f.PrimaryKey:
			col = fmt.Sprintf("%q integer PRIMARY KEY", f.Name)
		case notNull[f.Name]:
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	ddl := fmt.Sprintf("CREATE TABLE %q (%s)", name, strings.Join(cols, ", "))
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
}

func TestMaterializeRejectsNullableReference(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)
	plainTable(t, db, h, lab.EntitySample)

	_, err := Materialize(context.Background(), db, h, nil)
	if !errors.Is(err, lab.ErrSchemaConflict) {
		t.Fatalf("Materialize() error = %v, want ErrSchemaConflict", err)
	}
	if !strings.Contains(err.Error(), "calibration_id") {
		t.Fatalf("error %q does not name calibration_id", err)
	}
}

func TestMaterializeRejectsMissingForeignKey(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)
	plainTable(t, db, h, lab.EntitySample, "calibration_id")

	_, err := Materialize(context.Background(), db, h, nil)
	if !errors.Is(err, lab.ErrSchemaConflict) {
		t.Fatalf("Materialize() error = %v, want ErrSchemaConflict", err)
	}
	if !strings.Contains(err.Error(), "foreign key") {
		t.Fatalf("error %q does not report the foreign key", err)
	}
}

func TestMaterializeRejectsMissingEnumCheck(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)
	plainTable(t, db, h, lab.EntityQualityControl)

	_, err := Materialize(context.Background(), db, h, nil)
	if !errors.Is(err, lab.ErrSchemaConflict) {
		t.Fatalf("Materialize() error = %v, want ErrSchemaConflict", err)
	}
	if !strings.Contains(err.Error(), "control_types") {
		t.Fatalf("error %q does not name control_types", err)
	}
}

func TestMaterializeWithoutMetaStore(t *testing.T) {
	db := openTestDB(t)
	h := mustDefine(t)

	report, err := Materialize(context.Background(), db, h, nil)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if report.Fingerprint != h.Fingerprint() {
		t.Fatalf("Fingerprint = %q, want %q", report.Fingerprint, h.Fingerprint())
	}
}

func TestBindRejectsUndeclaredModelColumn(t *testing.T) {
	db := openTestDB(t)

	entities := schema.LabEntities()
	for i := range entities {
		if entities[i].Name != lab.EntitySample {
			continue
		}
		// Drop the trailing column so the model carries one the declaration lacks.
		entities[i].Fields = entities[i].Fields[:len(entities[i].Fields)-1]
	}
	h, err := schema.Build(schema.LabEnums(), entities)
	if err != nil {
		t.Fatalf("schema.Build() error = %v", err)
	}

	if _, err := Bind(db, h); !errors.Is(err, lab.ErrSchemaDefinition) {
		t.Fatalf("Bind() error = %v, want ErrSchemaDefinition", err)
	}
}

func TestBindRejectsUnknownEntity(t *testing.T) {
	db := openTestDB(t)

	h, err := schema.Build(nil, []schema.Entity{{
		Name:   "instrument",
		Fields: []schema.Field{{Name: "id", Type: schema.TypeInteger, PrimaryKey: true}},
	}})
	if err != nil {
		t.Fatalf("schema.Build() error = %v", err)
	}

	if _, err := Bind(db, h); !errors.Is(err, lab.ErrSchemaDefinition) {
		t.Fatalf("Bind() error = %v, want ErrSchemaDefinition", err)
	}
}

func TestBindAcceptsLabSchema(t *testing.T) {
	db := openTestDB(t)

	bindings, err := Bind(db, mustDefine(t))
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if len(bindings) != 6 {
		t.Fatalf("len(bindings) = %d, want 6", len(bindings))
	}
}
