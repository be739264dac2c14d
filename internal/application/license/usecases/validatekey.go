package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type ValidateKeyCommand struct {
	Key        string
	DeviceID   string
	SystemInfo string
}

// ValidateKeyResult is returned for both admitted and rejected devices;
// only store failures surface as errors.
type ValidateKeyResult struct {
	OK         bool
	Reason     license.Reason
	Message    string
	ExpiresAt  *time.Time
	NewlyBound bool
}

type ValidateKeyUseCase struct {
	mutator  *keyMutator
	recorder ValidationRecorder
	clock    biztime.Clock
	logger   logger.Interface
}

func NewValidateKeyUseCase(
	repo license.Repository,
	locker KeyLocker,
	recorder ValidationRecorder,
	clock biztime.Clock,
	logger logger.Interface,
) *ValidateKeyUseCase {
	return &ValidateKeyUseCase{
		mutator: &keyMutator{
			repo:       repo,
			locker:     locker,
			logger:     logger,
			onConflict: recorder.ObserveVersionConflict,
		},
		recorder: recorder,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *ValidateKeyUseCase) Execute(ctx context.Context, cmd ValidateKeyCommand) (*ValidateKeyResult, error) {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		return uc.finish(key, license.NotFoundDecision()), nil
	}

	unlock, err := uc.mutator.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var decision license.Decision
	found, err := uc.mutator.update(ctx, key, func(k *license.LicenseKey) bool {
		decision = k.Validate(cmd.DeviceID, cmd.SystemInfo, uc.clock())
		return decision.Changed
	})
	if err != nil {
		return nil, err
	}
	if !found {
		decision = license.NotFoundDecision()
	}

	return uc.finish(key, decision), nil
}

func (uc *ValidateKeyUseCase) finish(key string, d license.Decision) *ValidateKeyResult {
	outcome := "ok"
	if !d.OK {
		outcome = string(d.Reason)
	}
	uc.recorder.ObserveValidation(outcome, d.NewlyBound)

	result := &ValidateKeyResult{
		OK:         d.OK,
		Reason:     d.Reason,
		Message:    d.Message(),
		NewlyBound: d.NewlyBound,
	}
	if d.OK {
		expiresAt := d.ExpiresAt
		result.ExpiresAt = &expiresAt
		uc.logger.Infow("key validated", "key", key, "newly_bound", d.NewlyBound)
	} else {
		uc.logger.Infow("key validation rejected", "key", key, "reason", d.Reason)
	}
	return result
}
