package repository

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gotidy/ptr"
	"gorm.io/gorm"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/database"
	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/migrate"
	"labstore/internal/ports"
)

func setupRepos(t *testing.T) (*LabRepositories, *gorm.DB) {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "lab.sqlite"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	h, err := schema.Define()
	if err != nil {
		t.Fatalf("schema.Define() error = %v", err)
	}
	if _, err := migrate.Materialize(ctx, db, h, nil); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	repos, err := NewLabRepositories(db, h)
	if err != nil {
		t.Fatalf("NewLabRepositories() error = %v", err)
	}
	return repos, db
}

func createCalibration(t *testing.T, repos *LabRepositories) lab.Calibration {
	t.Helper()

	cal, err := repos.Calibrations.Create(context.Background(), lab.Calibration{
		CompoundName: ptr.String("atrazine"),
	})
	if err != nil {
		t.Fatalf("create calibration: %v", err)
	}
	return cal
}

func createSample(t *testing.T, repos *LabRepositories, calibrationID uint64) lab.Sample {
	t.Helper()

	s, err := repos.Samples.Create(context.Background(), lab.Sample{
		CalibrationID: calibrationID,
		Identifier:    ptr.String("S-1"),
	})
	if err != nil {
		t.Fatalf("create sample: %v", err)
	}
	return s
}

func assertConstraint(t *testing.T, err error, kind lab.ConstraintKind) {
	t.Helper()

	if !errors.Is(err, lab.ErrConstraintViolation) {
		t.Fatalf("error = %v, want ErrConstraintViolation", err)
	}
	var ce *lab.ConstraintError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *lab.ConstraintError", err)
	}
	if ce.Kind != kind {
		t.Fatalf("constraint kind = %q, want %q", ce.Kind, kind)
	}
}

func TestSampleRoundTripPreservesEveryField(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)

	acquired := lab.DateOf(time.Date(2023, 5, 17, 14, 33, 0, 0, time.UTC))
	in := lab.Sample{
		CalibrationID:    cal.ID,
		Identifier:       ptr.String("2023-0517-01"),
		Misc:             ptr.String("duplicate"),
		RunType:          ptr.String("sample"),
		Vial:             ptr.Int(12),
		AmtAnalyzed:      ptr.Float64(1.5),
		Multiplyer:       ptr.Float64(2),
		Folder:           ptr.String("051723"),
		Operator:         ptr.String("jd"),
		AcquiMethod:      ptr.String("TO-ACQ"),
		QuantMethod:      ptr.String("TO-QNT"),
		LastModified:     datePtr(lab.NewDate(2023, time.May, 18)),
		DateAcquiredCol1: datePtr(acquired),
		DateAcquiredCol2: datePtr(acquired),
		Col1WindowLow:    ptr.Float64(0.25),
		Col1WindowHigh:   ptr.Float64(31.75),
		Col2WindowLow:    ptr.Float64(0.5),
		Col2WindowHigh:   ptr.Float64(29.125),
	}

	created, err := repos.Samples.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("Create() did not assign an id")
	}

	got, err := repos.Samples.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	in.ID = created.ID
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, in)
	}
	if got.DateAcquiredCol1.Hour() != 0 {
		t.Fatalf("date kept time of day: %v", got.DateAcquiredCol1.Time)
	}
}

func TestSampleNullableFieldsStayNil(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)

	created, err := repos.Samples.Create(ctx, lab.Sample{CalibrationID: cal.ID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := repos.Samples.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Identifier != nil || got.Vial != nil || got.LastModified != nil {
		t.Fatalf("expected nil optional fields, got %+v", got)
	}
}

func TestCalibrationDefaults(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	created := createCalibration(t, repos)
	got, err := repos.Calibrations.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CalType != lab.CalAvgRespFac {
		t.Fatalf("CalType = %q, want %q", got.CalType, lab.CalAvgRespFac)
	}
	if got.IntegrationType != lab.IntegrationHeight {
		t.Fatalf("IntegrationType = %q, want %q", got.IntegrationType, lab.IntegrationHeight)
	}
	if got.RegressionType != "" {
		t.Fatalf("RegressionType = %q, want unset", got.RegressionType)
	}
}

func TestCalibrationAcceptsEveryDeclaredType(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	for _, ct := range lab.CalibrationTypes() {
		created, err := repos.Calibrations.Create(ctx, lab.Calibration{
			CalType:         ct,
			IntegrationType: lab.IntegrationArea,
			RegressionType:  lab.RegressionInverseConc,
		})
		if err != nil {
			t.Fatalf("Create(%s) error = %v", ct, err)
		}
		got, err := repos.Calibrations.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", ct, err)
		}
		if got.CalType != ct || got.IntegrationType != lab.IntegrationArea || got.RegressionType != lab.RegressionInverseConc {
			t.Fatalf("stored %+v for %s", got, ct)
		}
	}
}

func TestCalibrationRejectsUnknownType(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Calibrations.Create(ctx, lab.Calibration{CalType: "cubic"})
	assertConstraint(t, err, lab.ConstraintEnum)
	if !errors.Is(err, lab.ErrInvalidCalibrationType) {
		t.Fatalf("error = %v, want ErrInvalidCalibrationType", err)
	}

	_, err = repos.Calibrations.Create(ctx, lab.Calibration{IntegrationType: "volume"})
	assertConstraint(t, err, lab.ConstraintEnum)

	if n, err := repos.Calibrations.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count() = %d, %v, want 0", n, err)
	}
}

func TestStoreCheckRejectsUnknownType(t *testing.T) {
	_, db := setupRepos(t)

	err := db.Exec("INSERT INTO calibration (cal_type) VALUES (?)", "cubic").Error
	if err == nil {
		t.Fatalf("raw insert with unknown cal_type succeeded")
	}
	assertConstraint(t, translateConstraint(lab.EntityCalibration, err), lab.ConstraintEnum)
}

func TestQualityControlControlTypes(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	for _, ct := range lab.ControlTypes() {
		if _, err := repos.QualityControls.Create(ctx, lab.QualityControl{
			ControlType: ct,
			Flag:        ptr.String("X"),
		}); err != nil {
			t.Fatalf("Create(%s) error = %v", ct, err)
		}
	}

	_, err := repos.QualityControls.Create(ctx, lab.QualityControl{ControlType: "spike"})
	assertConstraint(t, err, lab.ConstraintEnum)

	items, err := repos.QualityControls.List(ctx, ports.QualityControlFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != len(lab.ControlTypes()) {
		t.Fatalf("len(List()) = %d, want %d", len(items), len(lab.ControlTypes()))
	}
	if items[0].Flag == nil || *items[0].Flag != "X" {
		t.Fatalf("flag not stored verbatim: %+v", items[0])
	}
}

func TestDanglingReferencesRejected(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Compounds.Create(ctx, lab.Compound{SampleID: 9999, Value: ptr.Float64(1)})
	assertConstraint(t, err, lab.ConstraintForeignKey)

	_, err = repos.AuditEntries.Create(ctx, lab.AuditEntry{SampleID: 9999})
	assertConstraint(t, err, lab.ConstraintForeignKey)

	_, err = repos.Calibrants.Create(ctx, lab.Calibrant{CalibrationID: 9999})
	assertConstraint(t, err, lab.ConstraintForeignKey)

	_, err = repos.Samples.Create(ctx, lab.Sample{CalibrationID: 9999})
	assertConstraint(t, err, lab.ConstraintForeignKey)

	if n, err := repos.Compounds.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Compounds.Count() = %d, %v, want 0", n, err)
	}
}

func TestMissingReferenceRejected(t *testing.T) {
	repos, _ := setupRepos(t)

	_, err := repos.Compounds.Create(context.Background(), lab.Compound{})
	assertConstraint(t, err, lab.ConstraintNotNull)
}

func TestStoreForeignKeyRejectsDanglingReference(t *testing.T) {
	_, db := setupRepos(t)

	err := db.Exec("INSERT INTO compound (sample_id) VALUES (?)", 9999).Error
	if err == nil {
		t.Fatalf("raw insert with dangling sample_id succeeded")
	}
	assertConstraint(t, translateConstraint(lab.EntityCompound, err), lab.ConstraintForeignKey)
}

func TestDeleteRestrictedWhileChildrenExist(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)
	sample := createSample(t, repos, cal.ID)

	compound, err := repos.Compounds.Create(ctx, lab.Compound{SampleID: sample.ID, IsReported: ptr.Bool(true)})
	if err != nil {
		t.Fatalf("create compound: %v", err)
	}

	assertConstraint(t, repos.Samples.Delete(ctx, sample.ID), lab.ConstraintRestrict)
	assertConstraint(t, repos.Calibrations.Delete(ctx, cal.ID), lab.ConstraintRestrict)

	if err := repos.Compounds.Delete(ctx, compound.ID); err != nil {
		t.Fatalf("delete compound: %v", err)
	}
	if err := repos.Samples.Delete(ctx, sample.ID); err != nil {
		t.Fatalf("delete sample after children removed: %v", err)
	}
	if err := repos.Calibrations.Delete(ctx, cal.ID); err != nil {
		t.Fatalf("delete calibration after children removed: %v", err)
	}
}

func TestMissingIDsReturnNotFound(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Samples.Get(ctx, 42)
	if !errors.Is(err, lab.ErrNotFound) || errs.KindOf(err) != lab.ErrNotFound {
		t.Fatalf("Get() error = %v, want ErrNotFound kind", err)
	}
	if err.Error() != "record not found: sample 42" {
		t.Fatalf("Get() error = %q", err.Error())
	}
	if err := repos.QualityControls.Update(ctx, lab.QualityControl{ID: 42}); !errors.Is(err, lab.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if err := repos.QualityControls.Update(ctx, lab.QualityControl{}); !errors.Is(err, lab.ErrNotFound) {
		t.Fatalf("Update(no id) error = %v, want ErrNotFound", err)
	}
	if err := repos.Calibrations.Delete(ctx, 42); !errors.Is(err, lab.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateReplacesColumns(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)

	cal.CalType = lab.CalQuad
	cal.RegressionType = lab.RegressionEqualWeights
	cal.CompoundName = nil
	cal.Correlation = ptr.Float64(0.9991)
	if err := repos.Calibrations.Update(ctx, cal); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repos.Calibrations.Get(ctx, cal.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CalType != lab.CalQuad || got.RegressionType != lab.RegressionEqualWeights {
		t.Fatalf("enum columns not updated: %+v", got)
	}
	if got.CompoundName != nil {
		t.Fatalf("CompoundName = %q, want nil", *got.CompoundName)
	}
	if got.Correlation == nil || *got.Correlation != 0.9991 {
		t.Fatalf("Correlation = %v", got.Correlation)
	}

	cal.CalType = "cubic"
	assertConstraint(t, repos.Calibrations.Update(ctx, cal), lab.ConstraintEnum)
}

func TestUpdateRejectsDanglingReference(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)
	sample := createSample(t, repos, cal.ID)

	sample.CalibrationID = 9999
	assertConstraint(t, repos.Samples.Update(ctx, sample), lab.ConstraintForeignKey)
}

func TestListByParent(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)
	first := createSample(t, repos, cal.ID)
	second := createSample(t, repos, cal.ID)

	for _, sid := range []uint64{first.ID, first.ID, second.ID} {
		if _, err := repos.Compounds.Create(ctx, lab.Compound{SampleID: sid}); err != nil {
			t.Fatalf("create compound: %v", err)
		}
	}
	if _, err := repos.AuditEntries.Create(ctx, lab.AuditEntry{
		SampleID: second.ID,
		Date:     datePtr(lab.NewDate(2024, time.January, 2)),
		Event:    ptr.String("edit"),
		User:     ptr.String("jd"),
	}); err != nil {
		t.Fatalf("create audit entry: %v", err)
	}

	compounds, err := repos.Compounds.List(ctx, ports.CompoundFilter{SampleID: first.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(compounds) != 2 {
		t.Fatalf("len(compounds of first) = %d, want 2", len(compounds))
	}
	if compounds[0].ID >= compounds[1].ID {
		t.Fatalf("List() not ordered by id: %d, %d", compounds[0].ID, compounds[1].ID)
	}

	all, err := repos.Compounds.List(ctx, ports.CompoundFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List(all) = %d, %v, want 3", len(all), err)
	}

	audits, err := repos.AuditEntries.List(ctx, ports.AuditEntryFilter{SampleID: first.ID})
	if err != nil || len(audits) != 0 {
		t.Fatalf("audits of first = %d, %v, want 0", len(audits), err)
	}

	samples, err := repos.Samples.List(ctx, ports.SampleFilter{CalibrationID: cal.ID})
	if err != nil || len(samples) != 2 {
		t.Fatalf("samples of calibration = %d, %v, want 2", len(samples), err)
	}
}

func TestCalibrantRoundTrip(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)

	in := lab.Calibrant{
		CalibrationID: cal.ID,
		Number:        ptr.Int(3),
		Folder:        ptr.String("cal-0412"),
		TrueVal:       ptr.Float64(50),
		Response:      ptr.Float64(14230.5),
		RespFac:       ptr.Float64(284.61),
		ColumnID:      ptr.Int(1),
	}
	created, err := repos.Calibrants.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	in.ID = created.ID

	items, err := repos.Calibrants.List(ctx, ports.CalibrantFilter{CalibrationID: cal.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || !reflect.DeepEqual(items[0], in) {
		t.Fatalf("List() = %+v, want [%+v]", items, in)
	}
}

func datePtr(d lab.Date) *lab.Date { return &d }

func TestOutOfRangeIDs(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	const huge = uint64(math.MaxUint64)

	_, err := repos.Compounds.Create(ctx, lab.Compound{SampleID: huge})
	assertConstraint(t, err, lab.ConstraintForeignKey)

	_, err = repos.Calibrations.Create(ctx, lab.Calibration{ID: huge})
	assertConstraint(t, err, lab.ConstraintCheck)

	if _, err := repos.Samples.Get(ctx, huge); !errors.Is(err, lab.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if err := repos.Calibrations.Update(ctx, lab.Calibration{ID: huge}); !errors.Is(err, lab.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if err := repos.Samples.Delete(ctx, huge); !errors.Is(err, lab.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}

	items, err := repos.Compounds.List(ctx, ports.CompoundFilter{SampleID: huge})
	if err != nil || len(items) != 0 {
		t.Fatalf("List() = %d, %v, want empty", len(items), err)
	}
}

func TestFiveDigitYearRejectedBeforeWrite(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	cal := createCalibration(t, repos)
	s := createSample(t, repos, cal.ID)

	_, err := repos.AuditEntries.Create(ctx, lab.AuditEntry{
		SampleID: s.ID,
		Date:     datePtr(lab.NewDate(10000, time.January, 1)),
	})
	assertConstraint(t, err, lab.ConstraintCheck)

	s.LastModified = datePtr(lab.NewDate(20000, time.March, 3))
	if err := repos.Samples.Update(ctx, s); !errors.Is(err, lab.ErrDateOutOfRange) {
		t.Fatalf("Update() error = %v, want ErrDateOutOfRange", err)
	}

	got, err := repos.Samples.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.LastModified != nil {
		t.Fatalf("LastModified = %v, want unchanged nil", got.LastModified)
	}
}
