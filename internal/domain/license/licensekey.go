package license

import (
	"slices"
	"strings"
	"time"
)

const (
	DefaultPrefix      = "VIP"
	DefaultDeviceLimit = 1

	SystemInfoUnbound = "No Device Connected"
	SystemInfoDefault = "Android Device"
	SystemInfoReset   = "Reset by Admin"

	// MaxDays is the longest lifetime a new key may be issued for.
	MaxDays = 36500

	day = 24 * time.Hour
)

// LicenseKey is a license issued for one application. Devices bind to it on
// first successful validation, up to deviceLimit distinct devices.
type LicenseKey struct {
	key          string
	application  string
	prefix       string
	createdAt    time.Time
	expiresAt    time.Time
	deviceLimit  int
	boundDevices []string
	lastDevice   string
	lastLoginAt  *time.Time
	banned       bool
	systemInfo   string
	version      uint
}

// NewLicenseKey builds an unbound key expiring days*24h after now. days must
// lie in [1, MaxDays]. An empty prefix falls back to DefaultPrefix and a
// non-positive device limit to DefaultDeviceLimit.
func NewLicenseKey(key, application, prefix string, days, deviceLimit int, now time.Time) (*LicenseKey, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrInvalidKey
	}
	if strings.TrimSpace(application) == "" {
		return nil, ErrInvalidApplication
	}
	if days < 1 || days > MaxDays {
		return nil, ErrInvalidDays
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if deviceLimit <= 0 {
		deviceLimit = DefaultDeviceLimit
	}

	return &LicenseKey{
		key:          key,
		application:  application,
		prefix:       prefix,
		createdAt:    now,
		expiresAt:    now.Add(time.Duration(days) * day),
		deviceLimit:  deviceLimit,
		boundDevices: []string{},
		systemInfo:   SystemInfoUnbound,
	}, nil
}

// ReconstructLicenseKey rebuilds a key from storage. Bindings beyond
// deviceLimit are kept as stored; IsOverfull reports them and Validate admits
// no new device while they last.
func ReconstructLicenseKey(
	key string,
	application string,
	prefix string,
	createdAt time.Time,
	expiresAt time.Time,
	deviceLimit int,
	boundDevices []string,
	lastDevice string,
	lastLoginAt *time.Time,
	banned bool,
	systemInfo string,
	version uint,
) (*LicenseKey, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if deviceLimit <= 0 {
		deviceLimit = DefaultDeviceLimit
	}
	if boundDevices == nil {
		boundDevices = []string{}
	}

	return &LicenseKey{
		key:          key,
		application:  application,
		prefix:       prefix,
		createdAt:    createdAt,
		expiresAt:    expiresAt,
		deviceLimit:  deviceLimit,
		boundDevices: slices.Clone(boundDevices),
		lastDevice:   lastDevice,
		lastLoginAt:  lastLoginAt,
		banned:       banned,
		systemInfo:   systemInfo,
		version:      version,
	}, nil
}

// IsOverfull reports a stored binding set larger than the device limit.
func (k *LicenseKey) IsOverfull() bool {
	return len(k.boundDevices) > k.deviceLimit
}

func (k *LicenseKey) Key() string             { return k.key }
func (k *LicenseKey) Application() string     { return k.application }
func (k *LicenseKey) Prefix() string          { return k.prefix }
func (k *LicenseKey) CreatedAt() time.Time    { return k.createdAt }
func (k *LicenseKey) ExpiresAt() time.Time    { return k.expiresAt }
func (k *LicenseKey) DeviceLimit() int        { return k.deviceLimit }
func (k *LicenseKey) LastDevice() string      { return k.lastDevice }
func (k *LicenseKey) LastLoginAt() *time.Time { return k.lastLoginAt }
func (k *LicenseKey) IsBanned() bool          { return k.banned }
func (k *LicenseKey) SystemInfo() string      { return k.systemInfo }
func (k *LicenseKey) Version() uint           { return k.version }

// BoundDevices returns a copy of the bound device ids in binding order.
func (k *LicenseKey) BoundDevices() []string {
	return slices.Clone(k.boundDevices)
}

// IsUsed reports whether any device is bound.
func (k *LicenseKey) IsUsed() bool {
	return len(k.boundDevices) > 0
}

func (k *LicenseKey) IsBound(deviceID string) bool {
	return slices.Contains(k.boundDevices, deviceID)
}

// IsExpired is true strictly after expiresAt.
func (k *LicenseKey) IsExpired(now time.Time) bool {
	return k.expiresAt.Before(now)
}

// BelongsTo reports whether the key references any of refs.
func (k *LicenseKey) BelongsTo(refs ...string) bool {
	for _, ref := range refs {
		if ref != "" && k.application == ref {
			return true
		}
	}
	return false
}

// Status derives the key state. Banned beats Expired beats Active/Inactive.
func (k *LicenseKey) Status(now time.Time) Status {
	switch {
	case k.banned:
		return StatusBanned
	case k.IsExpired(now):
		return StatusExpired
	case len(k.boundDevices) > 0:
		return StatusActive
	default:
		return StatusInactive
	}
}

// Ban marks the key banned. Repeated calls are no-ops.
func (k *LicenseKey) Ban() {
	k.banned = true
}

// ResetDevices unbinds every device; the ban flag is left alone.
func (k *LicenseKey) ResetDevices() {
	k.boundDevices = []string{}
	k.lastDevice = ""
	k.systemInfo = SystemInfoReset
}

// SetVersion is used by repositories after a successful write.
func (k *LicenseKey) SetVersion(v uint) {
	k.version = v
}
