package importdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/domain/permission"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// Repositories is one side of an import.
type Repositories struct {
	Keys        license.Repository
	Apps        application.Repository
	Permissions permission.Repository
}

// Report counts what an import copied and what it skipped because the
// destination already had it.
type Report struct {
	Apps        int
	Keys        int
	Permissions int
	Skipped     int
}

// Transactor runs fn in one unit of work on the destination backend.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Importer copies every application, key and role assignment from one
// backend into another. Existing rows in the destination are left alone, so
// an import can be re-run after a partial failure.
type Importer struct {
	src    Repositories
	dst    Repositories
	tx     Transactor
	logger logger.Interface
}

func NewImporter(src, dst Repositories, logger logger.Interface) *Importer {
	return &Importer{src: src, dst: dst, logger: logger}
}

// WithTransaction makes Run all-or-nothing on the destination.
func (im *Importer) WithTransaction(tx Transactor) *Importer {
	im.tx = tx
	return im
}

func (im *Importer) Run(ctx context.Context) (*Report, error) {
	if im.tx == nil {
		return im.copyAll(ctx)
	}

	var report *Report
	err := im.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		report, err = im.copyAll(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (im *Importer) copyAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	apps, err := im.src.Apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	for _, app := range apps {
		existing, err := im.dst.Apps.GetByName(ctx, app.Name())
		if err != nil {
			return report, fmt.Errorf("failed to read application %s: %w", app.Name(), err)
		}
		if existing != nil {
			report.Skipped++
			continue
		}
		err = im.dst.Apps.Create(ctx, app)
		switch {
		case errors.Is(err, application.ErrDuplicateName):
			im.logger.Debugw("application exists, skipping", "name", app.Name())
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("failed to import application %s: %w", app.Name(), err)
		default:
			report.Apps++
		}
	}

	keys, err := im.src.Keys.List(ctx, license.ListFilter{})
	if err != nil {
		return report, fmt.Errorf("failed to read keys: %w", err)
	}
	for _, k := range keys {
		existing, err := im.dst.Keys.GetByKey(ctx, k.Key())
		if err != nil {
			return report, fmt.Errorf("failed to read key %s: %w", k.Key(), err)
		}
		if existing != nil {
			report.Skipped++
			continue
		}
		err = im.dst.Keys.Create(ctx, k)
		switch {
		case errors.Is(err, license.ErrDuplicateKey):
			report.Skipped++
		case err != nil:
			return report, fmt.Errorf("failed to import key %s: %w", k.Key(), err)
		default:
			report.Keys++
		}
	}

	assignments, err := im.src.Permissions.ListAtLeast(ctx, permission.RoleSupport)
	if err != nil {
		return report, fmt.Errorf("failed to read role assignments: %w", err)
	}
	for _, a := range assignments {
		existing, err := im.dst.Permissions.Get(ctx, a.UserID())
		if err != nil {
			return report, fmt.Errorf("failed to read role for %s: %w", a.UserID(), err)
		}
		if existing != nil {
			report.Skipped++
			continue
		}
		if err := im.dst.Permissions.Save(ctx, a); err != nil {
			return report, fmt.Errorf("failed to import role for %s: %w", a.UserID(), err)
		}
		report.Permissions++
	}

	im.logger.Infow("import finished",
		"applications", report.Apps,
		"keys", report.Keys,
		"permissions", report.Permissions,
		"skipped", report.Skipped)
	return report, nil
}
