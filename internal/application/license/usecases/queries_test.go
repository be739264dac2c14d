package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopperkey/phatdev/internal/domain/license"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

func keyFixture(t *testing.T, key string, expired, banned bool, devices ...string) *license.LicenseKey {
	t.Helper()
	expiresAt := testNow.AddDate(0, 0, 10)
	if expired {
		expiresAt = testNow.AddDate(0, 0, -1)
	}
	lastDevice := ""
	if len(devices) > 0 {
		lastDevice = devices[len(devices)-1]
	}
	k, err := license.ReconstructLicenseKey(
		key, "AK-APP0000001", "VIP",
		testNow.AddDate(0, 0, -20), expiresAt,
		2, devices, lastDevice, nil, banned, "Pixel", 1,
	)
	require.NoError(t, err)
	return k
}

func fixtureKeys(t *testing.T) []*license.LicenseKey {
	return []*license.LicenseKey{
		keyFixture(t, "VIP-INACTIVE", false, false),
		keyFixture(t, "VIP-ACTIVE01", false, false, "dev-A"),
		keyFixture(t, "VIP-EXPIRED1", true, false, "dev-B"),
		keyFixture(t, "VIP-BANNED01", true, true, "dev-C"),
	}
}

func TestGetAnalyticsUseCase_Execute(t *testing.T) {
	keyRepo := &mockKeyRepository{
		ListFunc: func(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
			return fixtureKeys(t), nil
		},
	}
	appRepo := &mockAppRepository{
		CountFunc: func(ctx context.Context) (int64, error) { return 2, nil },
	}
	uc := NewGetAnalyticsUseCase(keyRepo, appRepo, fixedClock, logger.NewNopLogger())

	got, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalKeys)
	assert.Equal(t, 1, got.ActiveKeys)
	assert.Equal(t, 1, got.BannedKeys)
	assert.Equal(t, 1, got.ExpiredKeys)
	assert.Equal(t, int64(2), got.TotalApps)
	assert.LessOrEqual(t, got.ActiveKeys+got.BannedKeys+got.ExpiredKeys, got.TotalKeys)
}

func TestListKeysUseCase_Execute_StatusAndFilter(t *testing.T) {
	var gotFilter license.ListFilter
	keyRepo := &mockKeyRepository{
		ListFunc: func(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
			gotFilter = filter
			return fixtureKeys(t), nil
		},
	}
	uc := NewListKeysUseCase(keyRepo, appRepoWith(testApp(t)), fixedClock, logger.NewNopLogger())

	keys, err := uc.Execute(context.Background(), ListKeysQuery{ApplicationRef: "App1"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AK-APP0000001", "App1"}, gotFilter.Applications)

	statuses := map[string]string{}
	for _, k := range keys {
		statuses[k.Key] = k.Status
	}
	assert.Equal(t, map[string]string{
		"VIP-INACTIVE": "Inactive",
		"VIP-ACTIVE01": "Active",
		"VIP-EXPIRED1": "Expired",
		"VIP-BANNED01": "Banned",
	}, statuses)
}

func TestListKeysUseCase_Execute_UnknownApplicationFiltersByRef(t *testing.T) {
	var gotFilter license.ListFilter
	keyRepo := &mockKeyRepository{
		ListFunc: func(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	uc := NewListKeysUseCase(keyRepo, &mockAppRepository{}, fixedClock, logger.NewNopLogger())

	keys, err := uc.Execute(context.Background(), ListKeysQuery{ApplicationRef: "AK-GONE000001"})

	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, []string{"AK-GONE000001"}, gotFilter.Applications)
}

func TestGetKeyUseCase_Execute(t *testing.T) {
	keyRepo := &mockKeyRepository{
		GetByKeyFunc: func(ctx context.Context, key string) (*license.LicenseKey, error) {
			if key == "VIP-ACTIVE01" {
				return keyFixture(t, key, false, false, "dev-A"), nil
			}
			return nil, nil
		},
	}
	uc := NewGetKeyUseCase(keyRepo, fixedClock, logger.NewNopLogger())

	got, err := uc.Execute(context.Background(), GetKeyQuery{Key: "VIP-ACTIVE01"})
	require.NoError(t, err)
	assert.Equal(t, "Active", got.Status)
	require.NotNil(t, got.Hwid)
	assert.Equal(t, "dev-A", *got.Hwid)
	assert.True(t, got.Used)

	_, err = uc.Execute(context.Background(), GetKeyQuery{Key: "VIP-MISSING0"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, license.MsgKeyLookupMissing, apperrors.GetAppError(err).Message)
}

func TestListUsersUseCase_Execute(t *testing.T) {
	var gotFilter license.ListFilter
	keyRepo := &mockKeyRepository{
		ListFunc: func(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
			gotFilter = filter
			return fixtureKeys(t)[1:], nil
		},
	}
	uc := NewListUsersUseCase(keyRepo, fixedClock, logger.NewNopLogger())

	users, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.True(t, gotFilter.BoundOnly)
	require.Len(t, users, 3)
	assert.Equal(t, "dev-A", users[0].UserID)
	assert.Equal(t, "VIP-ACTIVE01", users[0].KeyUsed)
	assert.Equal(t, "Pixel", users[0].SystemInfo)
	assert.Equal(t, "Active", users[0].Status)
	assert.Equal(t, "Expired", users[1].Status)
	assert.Equal(t, "Banned", users[2].Status)
}
