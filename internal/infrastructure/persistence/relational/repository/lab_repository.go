package repository

import (
	"context"

	"gorm.io/gorm"

	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/model"
	"labstore/internal/ports"
)

type SampleRepository struct {
	*table[lab.Sample, model.Sample]
}

type CompoundRepository struct {
	*table[lab.Compound, model.Compound]
}

type AuditEntryRepository struct {
	*table[lab.AuditEntry, model.AuditEntry]
}

type CalibrationRepository struct {
	*table[lab.Calibration, model.Calibration]
}

type CalibrantRepository struct {
	*table[lab.Calibrant, model.Calibrant]
}

type QualityControlRepository struct {
	*table[lab.QualityControl, model.QualityControl]
}

var (
	_ ports.SampleRepository         = (*SampleRepository)(nil)
	_ ports.CompoundRepository       = (*CompoundRepository)(nil)
	_ ports.AuditEntryRepository     = (*AuditEntryRepository)(nil)
	_ ports.CalibrationRepository    = (*CalibrationRepository)(nil)
	_ ports.CalibrantRepository      = (*CalibrantRepository)(nil)
	_ ports.QualityControlRepository = (*QualityControlRepository)(nil)
)

func (r *SampleRepository) List(ctx context.Context, filter ports.SampleFilter) ([]lab.Sample, error) {
	return r.list(ctx, "calibration_id", filter.CalibrationID)
}

func (r *CompoundRepository) List(ctx context.Context, filter ports.CompoundFilter) ([]lab.Compound, error) {
	return r.list(ctx, "sample_id", filter.SampleID)
}

func (r *AuditEntryRepository) List(ctx context.Context, filter ports.AuditEntryFilter) ([]lab.AuditEntry, error) {
	return r.list(ctx, "sample_id", filter.SampleID)
}

func (r *CalibrationRepository) List(ctx context.Context, _ ports.CalibrationFilter) ([]lab.Calibration, error) {
	return r.list(ctx, "", 0)
}

func (r *CalibrantRepository) List(ctx context.Context, filter ports.CalibrantFilter) ([]lab.Calibrant, error) {
	return r.list(ctx, "calibration_id", filter.CalibrationID)
}

func (r *QualityControlRepository) List(ctx context.Context, _ ports.QualityControlFilter) ([]lab.QualityControl, error) {
	return r.list(ctx, "", 0)
}

// LabRepositories holds one repository per lab entity, all sharing db.
type LabRepositories struct {
	Samples         *SampleRepository
	Compounds       *CompoundRepository
	AuditEntries    *AuditEntryRepository
	Calibrations    *CalibrationRepository
	Calibrants      *CalibrantRepository
	QualityControls *QualityControlRepository
}

func NewLabRepositories(db *gorm.DB, h *schema.Handle) (*LabRepositories, error) {
	samples, err := newTable[lab.Sample, model.Sample](db, h, lab.EntitySample)
	if err != nil {
		return nil, errs.Wrap(err, "bind sample repository")
	}
	samples.toRow, samples.fromRow = toSampleRow, mapSample
	samples.idOf = func(s lab.Sample) uint64 { return s.ID }
	samples.prepare = func(s lab.Sample) (lab.Sample, error) { return s, s.Validate() }
	samples.refs = func(s lab.Sample) map[string]uint64 {
		return map[string]uint64{"calibration_id": s.CalibrationID}
	}

	compounds, err := newTable[lab.Compound, model.Compound](db, h, lab.EntityCompound)
	if err != nil {
		return nil, errs.Wrap(err, "bind compound repository")
	}
	compounds.toRow, compounds.fromRow = toCompoundRow, mapCompound
	compounds.idOf = func(c lab.Compound) uint64 { return c.ID }
	compounds.prepare = func(c lab.Compound) (lab.Compound, error) { return c, c.Validate() }
	compounds.refs = func(c lab.Compound) map[string]uint64 {
		return map[string]uint64{"sample_id": c.SampleID}
	}

	audits, err := newTable[lab.AuditEntry, model.AuditEntry](db, h, lab.EntityAuditEntry)
	if err != nil {
		return nil, errs.Wrap(err, "bind audit_entry repository")
	}
	audits.toRow, audits.fromRow = toAuditEntryRow, mapAuditEntry
	audits.idOf = func(a lab.AuditEntry) uint64 { return a.ID }
	audits.prepare = func(a lab.AuditEntry) (lab.AuditEntry, error) { return a, a.Validate() }
	audits.refs = func(a lab.AuditEntry) map[string]uint64 {
		return map[string]uint64{"sample_id": a.SampleID}
	}

	calibrations, err := newTable[lab.Calibration, model.Calibration](db, h, lab.EntityCalibration)
	if err != nil {
		return nil, errs.Wrap(err, "bind calibration repository")
	}
	calibrations.toRow, calibrations.fromRow = toCalibrationRow, mapCalibration
	calibrations.idOf = func(c lab.Calibration) uint64 { return c.ID }
	calibrations.prepare = func(c lab.Calibration) (lab.Calibration, error) {
		if err := c.Validate(); err != nil {
			return c, err
		}
		return c.WithDefaults(), nil
	}

	calibrants, err := newTable[lab.Calibrant, model.Calibrant](db, h, lab.EntityCalibrant)
	if err != nil {
		return nil, errs.Wrap(err, "bind calibrant repository")
	}
	calibrants.toRow, calibrants.fromRow = toCalibrantRow, mapCalibrant
	calibrants.idOf = func(c lab.Calibrant) uint64 { return c.ID }
	calibrants.prepare = func(c lab.Calibrant) (lab.Calibrant, error) { return c, c.Validate() }
	calibrants.refs = func(c lab.Calibrant) map[string]uint64 {
		return map[string]uint64{"calibration_id": c.CalibrationID}
	}

	qcs, err := newTable[lab.QualityControl, model.QualityControl](db, h, lab.EntityQualityControl)
	if err != nil {
		return nil, errs.Wrap(err, "bind quality_control repository")
	}
	qcs.toRow, qcs.fromRow = toQualityControlRow, mapQualityControl
	qcs.idOf = func(q lab.QualityControl) uint64 { return q.ID }
	qcs.prepare = func(q lab.QualityControl) (lab.QualityControl, error) { return q, q.Validate() }

	return &LabRepositories{
		Samples:         &SampleRepository{samples},
		Compounds:       &CompoundRepository{compounds},
		AuditEntries:    &AuditEntryRepository{audits},
		Calibrations:    &CalibrationRepository{calibrations},
		Calibrants:      &CalibrantRepository{calibrants},
		QualityControls: &QualityControlRepository{qcs},
	}, nil
}
