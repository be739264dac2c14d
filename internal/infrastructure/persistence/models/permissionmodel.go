package models

import (
	"time"

	"github.com/hopperkey/phatdev/internal/shared/constants"
)

// PermissionModel is one row per user holding a role above none.
type PermissionModel struct {
	UserID    string    `gorm:"column:user_id;primaryKey;size:100"`
	Role      string    `gorm:"not null;size:20;index"`
	GrantedBy string    `gorm:"size:100"`
	GrantedAt time.Time `gorm:"not null"`
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}
