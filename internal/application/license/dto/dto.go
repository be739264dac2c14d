package dto

import (
	"time"

	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
)

// KeyDTO is the wire view of a license key. Field names match what the
// dashboard and client builds already read.
type KeyDTO struct {
	Key         string   `json:"key"`
	API         string   `json:"api"`
	Prefix      string   `json:"prefix"`
	CreatedAt   string   `json:"created_at"`
	ExpiresAt   string   `json:"expires_at"`
	DeviceLimit int      `json:"device_limit"`
	Hwids       []string `json:"hwids"`
	Hwid        *string  `json:"hwid"`
	SystemInfo  string   `json:"system_info"`
	Used        bool     `json:"used"`
	Banned      bool     `json:"banned"`
	LastLoginAt *string  `json:"last_login_at,omitempty"`
	Status      string   `json:"status"`
}

func ToKeyDTO(k *license.LicenseKey, now time.Time) *KeyDTO {
	dto := &KeyDTO{
		Key:         k.Key(),
		API:         k.Application(),
		Prefix:      k.Prefix(),
		CreatedAt:   biztime.FormatISO(k.CreatedAt()),
		ExpiresAt:   biztime.FormatISO(k.ExpiresAt()),
		DeviceLimit: k.DeviceLimit(),
		Hwids:       k.BoundDevices(),
		SystemInfo:  k.SystemInfo(),
		Used:        k.IsUsed(),
		Banned:      k.IsBanned(),
		Status:      k.Status(now).String(),
	}
	if d := k.LastDevice(); d != "" {
		dto.Hwid = &d
	}
	if t := k.LastLoginAt(); t != nil {
		s := biztime.FormatISO(*t)
		dto.LastLoginAt = &s
	}
	return dto
}

func ToKeyDTOs(keys []*license.LicenseKey, now time.Time) []*KeyDTO {
	out := make([]*KeyDTO, 0, len(keys))
	for _, k := range keys {
		out = append(out, ToKeyDTO(k, now))
	}
	return out
}

// UserDTO describes the device currently using a key.
type UserDTO struct {
	UserID     string `json:"user_id"`
	KeyUsed    string `json:"key_used"`
	SystemInfo string `json:"system_info"`
	LastLogin  string `json:"last_login"`
	Status     string `json:"status"`
}

// ToUserDTO reports the last device on k. Keys bound before login times
// were recorded fall back to the creation time.
func ToUserDTO(k *license.LicenseKey, now time.Time) *UserDTO {
	userID := k.LastDevice()
	if userID == "" {
		if devices := k.BoundDevices(); len(devices) > 0 {
			userID = devices[len(devices)-1]
		}
	}
	systemInfo := k.SystemInfo()
	if systemInfo == "" {
		systemInfo = license.SystemInfoDefault
	}
	lastLogin := k.CreatedAt()
	if t := k.LastLoginAt(); t != nil {
		lastLogin = *t
	}
	return &UserDTO{
		UserID:     userID,
		KeyUsed:    k.Key(),
		SystemInfo: systemInfo,
		LastLogin:  biztime.FormatISO(lastLogin),
		Status:     k.Status(now).String(),
	}
}

type AnalyticsDTO struct {
	TotalKeys   int   `json:"total_keys"`
	ActiveKeys  int   `json:"active_keys"`
	BannedKeys  int   `json:"banned_keys"`
	ExpiredKeys int   `json:"expired_keys"`
	TotalApps   int64 `json:"total_apps"`
}
