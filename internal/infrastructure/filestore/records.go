package filestore

import (
	"fmt"
	"time"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
)

func keyToRecord(k *license.LicenseKey, version uint) KeyRecord {
	var hwid *string
	if d := k.LastDevice(); d != "" {
		hwid = &d
	}
	var lastLogin *string
	if t := k.LastLoginAt(); t != nil {
		s := biztime.FormatISO(*t)
		lastLogin = &s
	}
	return KeyRecord{
		Key:         k.Key(),
		API:         k.Application(),
		Prefix:      k.Prefix(),
		CreatedAt:   biztime.FormatISO(k.CreatedAt()),
		ExpiresAt:   biztime.FormatISO(k.ExpiresAt()),
		DeviceLimit: k.DeviceLimit(),
		Hwids:       k.BoundDevices(),
		Hwid:        hwid,
		SystemInfo:  k.SystemInfo(),
		Used:        k.IsUsed(),
		Banned:      k.IsBanned(),
		LastLoginAt: lastLogin,
		Version:     version,
	}
}

func recordToKey(r KeyRecord) (*license.LicenseKey, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("key %s created_at: %w", r.Key, err)
	}
	expiresAt, err := parseTime(r.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("key %s expires_at: %w", r.Key, err)
	}

	var lastLogin *time.Time
	if r.LastLoginAt != nil && *r.LastLoginAt != "" {
		t, err := parseTime(*r.LastLoginAt)
		if err != nil {
			return nil, fmt.Errorf("key %s last_login_at: %w", r.Key, err)
		}
		lastLogin = &t
	}

	devices := r.Hwids
	lastDevice := ""
	if r.Hwid != nil {
		lastDevice = *r.Hwid
		// single-device records written before hwids existed
		if len(devices) == 0 && lastDevice != "" {
			devices = []string{lastDevice}
		}
	}

	return license.ReconstructLicenseKey(
		r.Key, r.API, r.Prefix,
		createdAt, expiresAt,
		r.DeviceLimit, devices, lastDevice, lastLogin,
		r.Banned, r.SystemInfo, r.Version,
	)
}

func appToRecord(a *application.Application) ApplicationRecord {
	return ApplicationRecord{
		Name:      a.Name(),
		APIKey:    a.APIKey(),
		CreatedBy: a.CreatedBy(),
		CreatedAt: biztime.FormatISO(a.CreatedAt()),
	}
}

func recordToApp(r ApplicationRecord) (*application.Application, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("application %s created_at: %w", r.Name, err)
	}
	return application.ReconstructApplication(r.Name, r.APIKey, r.CreatedBy, createdAt)
}

// parseTime tolerates empty values from hand-edited files.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return biztime.ParseISO(s)
}
