package db

import (
	"gorm.io/gorm"
)

// WithStatus filters rows by their status column.
//
//	db.Model(&models.PaymentModel{}).Scopes(db.WithStatus("pending")).Find(&rows)
func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

// Latest orders by the given timestamp column, newest first, and caps the result.
func Latest(column string, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		q := db.Order(column + " DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}
}

// ArchivedBy selects listings of one owner that are currently archived.
func ArchivedBy(ownerID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ? AND archived = ?", ownerID, true)
	}
}
