package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/buildhomemart/homemart/internal/shared/constants"
)

// PaymentModel is one Razorpay checkout.
type PaymentModel struct {
	ID               uint    `gorm:"primaryKey"`
	GatewayOrderID   string  `gorm:"column:gateway_order_id;size:64;not null;index:idx_payments_gateway_order_id"`
	GatewayPaymentID *string `gorm:"column:gateway_payment_id;size:64;index:idx_payments_gateway_payment_id"`
	SubscriptionID   *uint   `gorm:"index"`
	UserID           uint    `gorm:"index;not null"`
	Amount           int64   `gorm:"not null"`
	Currency         string  `gorm:"size:3;not null;default:INR"`
	Type             string  `gorm:"size:32;not null"`
	Status           string  `gorm:"size:20;not null;index:idx_payments_status_expires_at,priority:1"`
	FailureReason    *string `gorm:"size:500"`
	Description      string  `gorm:"size:255"`
	Metadata         datatypes.JSON
	ExpiresAt        *time.Time `gorm:"index:idx_payments_status_expires_at,priority:2"`
	PaidAt           *time.Time
	CreatedAt        time.Time `gorm:"index:idx_payments_created_at"`
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}

// PaymentStatusRow is a row of the status histogram query.
type PaymentStatusRow struct {
	Status      string
	Count       int64
	TotalAmount int64
}
