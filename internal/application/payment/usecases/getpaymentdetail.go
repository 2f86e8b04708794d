package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// amountLocale is used for the display amount; Indian digit grouping.
var amountLocale = language.MustParse("en-IN")

type GetPaymentDetailCommand struct {
	// Identifier may be a local id, a gateway order id or a gateway payment id.
	Identifier string
}

type PaymentDetail struct {
	ID                   uint       `json:"id"`
	OrderID              string     `json:"orderId"`
	PaymentID            *string    `json:"paymentId"`
	SubscriptionID       *uint      `json:"subscriptionId,omitempty"`
	UserID               uint       `json:"userId"`
	Status               string     `json:"status"`
	Amount               int64      `json:"amount"`
	Currency             string     `json:"currency"`
	FormattedAmount      string     `json:"formattedAmount"`
	Type                 string     `json:"type"`
	Description          string     `json:"description,omitempty"`
	FailureReason        *string    `json:"failureReason"`
	CreatedAt            time.Time  `json:"createdAt"`
	ExpiresAt            *time.Time `json:"expiresAt"`
	IsExpired            bool       `json:"isExpired"`
	MinutesSinceCreation int        `json:"minutesSinceCreation"`
	TimeRemaining        int        `json:"timeRemaining"`
}

type GetPaymentDetailResult struct {
	Success bool           `json:"success"`
	Payment *PaymentDetail `json:"payment,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type GetPaymentDetailUseCase struct {
	paymentRepo payment.PaymentRepository
	logger      logger.Interface
	now         func() time.Time
}

func NewGetPaymentDetailUseCase(paymentRepo payment.PaymentRepository, logger logger.Interface) *GetPaymentDetailUseCase {
	return &GetPaymentDetailUseCase{
		paymentRepo: paymentRepo,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *GetPaymentDetailUseCase) Execute(ctx context.Context, cmd GetPaymentDetailCommand) *GetPaymentDetailResult {
	lookups := payment.ParseIdentifier(cmd.Identifier)
	if len(lookups) == 0 {
		return &GetPaymentDetailResult{Success: false, Error: ErrMsgPaymentNotFound}
	}

	p, err := findPayment(ctx, uc.paymentRepo, lookups)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return &GetPaymentDetailResult{Success: false, Error: ErrMsgPaymentNotFound}
		}
		uc.logger.Errorw("failed to load payment detail",
			"identifier", cmd.Identifier,
			"error", err,
		)
		return &GetPaymentDetailResult{Success: false, Error: err.Error()}
	}

	now := uc.now()
	return &GetPaymentDetailResult{
		Success: true,
		Payment: &PaymentDetail{
			ID:                   p.ID(),
			OrderID:              p.GatewayOrderID(),
			PaymentID:            p.GatewayPaymentID(),
			SubscriptionID:       p.SubscriptionID(),
			UserID:               p.UserID(),
			Status:               p.Status().String(),
			Amount:               p.Amount().AmountMinor(),
			Currency:             p.Amount().Currency().String(),
			FormattedAmount:      FormatAmount(p.Amount()),
			Type:                 p.Type().String(),
			Description:          p.Description(),
			FailureReason:        p.FailureReason(),
			CreatedAt:            p.CreatedAt(),
			ExpiresAt:            p.ExpiresAt(),
			IsExpired:            p.IsExpiredAt(now),
			MinutesSinceCreation: p.MinutesSinceCreation(now),
			TimeRemaining:        p.MinutesRemaining(now),
		},
	}
}

// FormatAmount renders a minor-unit amount with its currency symbol.
func FormatAmount(m vo.Money) string {
	unit, err := currency.ParseISO(m.Currency().String())
	if err != nil {
		return m.String()
	}
	p := message.NewPrinter(amountLocale)
	return strings.TrimSpace(p.Sprint(currency.Symbol(unit.Amount(m.AmountMajor()))))
}
