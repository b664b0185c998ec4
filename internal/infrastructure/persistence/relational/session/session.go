package session

import (
	"context"
	"errors"
	"log/slog"

	"labstore/internal/bootstrap/logging"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/repository"
	"labstore/internal/ports"
)

// Factory hands out sessions over one connection. Sessions from Session()
// autocommit each write; Run scopes a session to a single transaction.
type Factory struct {
	repos *repository.LabRepositories
	uow   ports.UnitOfWork
}

var _ ports.SessionFactory = (*Factory)(nil)

func NewFactory(repos *repository.LabRepositories, uow ports.UnitOfWork) *Factory {
	return &Factory{repos: repos, uow: uow}
}

func (f *Factory) Session() ports.Session {
	return session{repos: f.repos}
}

func (f *Factory) Run(ctx context.Context, fn func(ctx context.Context, s ports.Session) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if fn == nil {
		return errors.New("session func is required")
	}

	logCtx := logging.WithComponent(ctx, "persistence.session")
	err := f.uow.WithTx(ctx, func(txCtx context.Context) error {
		return fn(txCtx, session{repos: f.repos})
	})
	if err != nil {
		logging.Debug(logCtx, "session rolled back", slog.Any("err", errs.Loggable(err)))
		return err
	}
	logging.Debug(logCtx, "session committed")
	return nil
}

type session struct {
	repos *repository.LabRepositories
}

func (s session) Samples() ports.SampleRepository { return s.repos.Samples }
func (s session) Compounds() ports.CompoundRepository { return s.repos.Compounds }
func (s session) AuditEntries() ports.AuditEntryRepository { return s.repos.AuditEntries }
func (s session) Calibrations() ports.CalibrationRepository { return s.repos.Calibrations }
func (s session) Calibrants() ports.CalibrantRepository { return s.repos.Calibrants }
func (s session) QualityControls() ports.QualityControlRepository { return s.repos.QualityControls }
