package ports

import (
	"context"

	"labstore/internal/domain/lab"
)

// Repository is the CRUD surface shared by every lab entity. Create returns
// the stored record with its generated id and applied defaults.
type Repository[T any, F any] interface {
	Create(ctx context.Context, record T) (T, error)
	Get(ctx context.Context, id uint64) (T, error)
	List(ctx context.Context, filter F) ([]T, error)
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
}

// A zero parent id in a filter means "all records".

type SampleFilter struct {
	CalibrationID uint64
}

type CompoundFilter struct {
	SampleID uint64
}

type AuditEntryFilter struct {
	SampleID uint64
}

type CalibrationFilter struct{}

type CalibrantFilter struct {
	CalibrationID uint64
}

type QualityControlFilter struct{}

type SampleRepository = Repository[lab.Sample, SampleFilter]
type CompoundRepository = Repository[lab.Compound, CompoundFilter]
type AuditEntryRepository = Repository[lab.AuditEntry, AuditEntryFilter]
type CalibrationRepository = Repository[lab.Calibration, CalibrationFilter]
type CalibrantRepository = Repository[lab.Calibrant, CalibrantFilter]
type QualityControlRepository = Repository[lab.QualityControl, QualityControlFilter]

// Session is one scoped unit of work over all six collections.
type Session interface {
	Samples() SampleRepository
	Compounds() CompoundRepository
	AuditEntries() AuditEntryRepository
	Calibrations() CalibrationRepository
	Calibrants() CalibrantRepository
	QualityControls() QualityControlRepository
}

// SessionFactory produces sessions bound to one connection.
type SessionFactory interface {
	// Session returns an autocommit session.
	Session() Session
	// Run executes fn inside one transaction; an error from fn rolls it back.
	Run(ctx context.Context, fn func(ctx context.Context, s Session) error) error
}
