package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hopperkey/phatdev/internal/shared/constants"
)

// LicenseKeyModel is the persistence shape of a license key. Column names
// follow the hosted table layout (api, hwids, hwid) so existing rows load
// unchanged; the key itself lives in license_key because "key" is reserved
// in MySQL.
type LicenseKeyModel struct {
	ID           uint           `gorm:"primarykey"`
	LicenseKey   string         `gorm:"column:license_key;uniqueIndex;not null;size:64"`
	Application  string         `gorm:"column:api;index:idx_keys_api;not null;size:100"`
	Prefix       string         `gorm:"not null;size:32"`
	DeviceLimit  int            `gorm:"not null;default:1"`
	BoundDevices datatypes.JSON `gorm:"column:hwids"`
	LastDevice   *string        `gorm:"column:hwid;size:255;index:idx_keys_hwid"`
	Used         bool           `gorm:"not null;default:false"`
	Banned       bool           `gorm:"not null;default:false"`
	SystemInfo   string         `gorm:"size:255"`
	LastLoginAt  *time.Time
	ExpiresAt    time.Time `gorm:"not null;index:idx_keys_expires_at"`
	Version      uint      `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LicenseKeyModel) TableName() string {
	return constants.TableLicenseKeys
}
