package models

import (
	"time"

	"github.com/buildhomemart/homemart/internal/shared/constants"
)

// UserModel holds only the account fields the reconciliation reports read.
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
