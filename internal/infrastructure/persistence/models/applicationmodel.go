package models

import (
	"time"

	"github.com/hopperkey/phatdev/internal/shared/constants"
)

type ApplicationModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;not null;size:100"`
	APIKey    string `gorm:"column:api_key;uniqueIndex;not null;size:32"`
	CreatedBy string `gorm:"size:100"`
	CreatedAt time.Time
}

func (ApplicationModel) TableName() string {
	return constants.TableApplications
}
