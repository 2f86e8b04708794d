package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers/testutil"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockHandleWebhookUC struct {
	got    paymentUsecases.HandleWebhookCommand
	result *paymentUsecases.HandleWebhookResult
	err    error
}

func (m *mockHandleWebhookUC) Execute(ctx context.Context, cmd paymentUsecases.HandleWebhookCommand) (*paymentUsecases.HandleWebhookResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetPaymentDetailUC struct {
	got    paymentUsecases.GetPaymentDetailCommand
	result *paymentUsecases.GetPaymentDetailResult
}

func (m *mockGetPaymentDetailUC) Execute(ctx context.Context, cmd paymentUsecases.GetPaymentDetailCommand) *paymentUsecases.GetPaymentDetailResult {
	m.got = cmd
	return m.result
}

type mockVerifyPaymentUC struct {
	got    paymentUsecases.VerifyPaymentStatusCommand
	result *paymentUsecases.VerifyPaymentStatusResult
}

func (m *mockVerifyPaymentUC) Execute(ctx context.Context, cmd paymentUsecases.VerifyPaymentStatusCommand) *paymentUsecases.VerifyPaymentStatusResult {
	m.got = cmd
	return m.result
}

type mockMarkFailedUC struct {
	got    paymentUsecases.MarkPaymentFailedCommand
	called bool
	result *paymentUsecases.MarkPaymentFailedResult
}

func (m *mockMarkFailedUC) Execute(ctx context.Context, cmd paymentUsecases.MarkPaymentFailedCommand) *paymentUsecases.MarkPaymentFailedResult {
	m.got = cmd
	m.called = true
	return m.result
}

type mockPaymentStatsUC struct {
	result *paymentUsecases.GetPaymentStatsResult
}

func (m *mockPaymentStatsUC) Execute(ctx context.Context) *paymentUsecases.GetPaymentStatsResult {
	return m.result
}

func newTestPaymentHandler(
	webhookUC handleWebhookUseCase,
	detailUC getPaymentDetailUseCase,
	verifyUC verifyPaymentStatusUseCase,
	markFailedUC markPaymentFailedUseCase,
	statsUC getPaymentStatsUseCase,
) *PaymentHandler {
	return NewPaymentHandler(webhookUC, detailUC, verifyUC, markFailedUC, statsUC, testutil.NewMockLogger())
}

// =====================================================================
// Webhook
// =====================================================================

func TestPaymentHandler_Webhook_PassesRawBodyAndSignature(t *testing.T) {
	uc := &mockHandleWebhookUC{result: &paymentUsecases.HandleWebhookResult{
		Success: true, Event: "payment.captured", Handled: true, PaymentID: 7, Status: "paid",
	}}
	handler := newTestPaymentHandler(uc, nil, nil, nil, nil)

	body := []byte(`{"event":"payment.captured",  "payload":{}}`)
	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/webhooks/razorpay", body,
		map[string]string{constants.HeaderRazorpaySignature: "abc123"})

	handler.HandleRazorpayWebhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, uc.got.Body)
	assert.Equal(t, "abc123", uc.got.Signature)
}

func TestPaymentHandler_Webhook_BadSignature(t *testing.T) {
	uc := &mockHandleWebhookUC{err: errors.NewSignatureError("invalid webhook signature")}
	handler := newTestPaymentHandler(uc, nil, nil, nil, nil)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/webhooks/razorpay", []byte(`{}`), nil)

	handler.HandleRazorpayWebhook(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid webhook signature", resp.Error.Message)
}

// =====================================================================
// Status, verify, stats
// =====================================================================

func TestPaymentHandler_GetPaymentStatus(t *testing.T) {
	t.Run("found by order id", func(t *testing.T) {
		uc := &mockGetPaymentDetailUC{result: &paymentUsecases.GetPaymentDetailResult{
			Success: true,
			Payment: &paymentUsecases.PaymentDetail{ID: 4, Status: "pending"},
		}}
		handler := newTestPaymentHandler(nil, uc, nil, nil, nil)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/payments/order_9A33XWu170gUtm/status", nil)
		testutil.SetURLParam(c, "id", "order_9A33XWu170gUtm")

		handler.GetPaymentStatus(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "order_9A33XWu170gUtm", uc.got.Identifier)
	})

	t.Run("not found", func(t *testing.T) {
		uc := &mockGetPaymentDetailUC{result: &paymentUsecases.GetPaymentDetailResult{
			Success: false, Error: paymentUsecases.ErrMsgPaymentNotFound,
		}}
		handler := newTestPaymentHandler(nil, uc, nil, nil, nil)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/payments/99/status", nil)
		testutil.SetURLParam(c, "id", "99")

		handler.GetPaymentStatus(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPaymentHandler_VerifyPayment(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		handler := newTestPaymentHandler(nil, nil, &mockVerifyPaymentUC{}, nil, nil)
		c, w := testutil.NewTestContext(http.MethodPost, "/api/payments/abc/verify", nil)
		testutil.SetURLParam(c, "id", "abc")

		handler.VerifyPayment(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("verified", func(t *testing.T) {
		uc := &mockVerifyPaymentUC{result: &paymentUsecases.VerifyPaymentStatusResult{Success: true, Status: "paid"}}
		handler := newTestPaymentHandler(nil, nil, uc, nil, nil)
		c, w := testutil.NewTestContext(http.MethodPost, "/api/payments/12/verify", nil)
		testutil.SetURLParam(c, "id", "12")

		handler.VerifyPayment(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(12), uc.got.PaymentID)

		var data paymentUsecases.VerifyPaymentStatusResult
		_, err := testutil.ParseData(w, &data)
		require.NoError(t, err)
		assert.Equal(t, "paid", data.Status)
	})
}

func TestPaymentHandler_GetPaymentStats(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		uc := &mockPaymentStatsUC{result: &paymentUsecases.GetPaymentStatsResult{
			Success:               true,
			CancelledDueToTimeout: 3,
		}}
		handler := newTestPaymentHandler(nil, nil, nil, nil, uc)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/payments/stats", nil)

		handler.GetPaymentStats(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("storage failure is hidden", func(t *testing.T) {
		uc := &mockPaymentStatsUC{result: &paymentUsecases.GetPaymentStatsResult{Error: "dial tcp 10.0.0.3:3306"}}
		handler := newTestPaymentHandler(nil, nil, nil, nil, uc)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/payments/stats", nil)

		handler.GetPaymentStats(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.3")
	})
}

// =====================================================================
// Mark failed
// =====================================================================

func TestPaymentHandler_MarkPaymentFailed_BuildsLookupsInOrder(t *testing.T) {
	uc := &mockMarkFailedUC{result: &paymentUsecases.MarkPaymentFailedResult{Success: true, PaymentID: 5, Status: "failed"}}
	handler := newTestPaymentHandler(nil, nil, nil, uc, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/payments/fail", MarkPaymentFailedRequest{
		OrderID:           " order_1 ",
		RazorpayPaymentID: "pay_1",
		Reason:            "Card declined",
	})

	handler.MarkPaymentFailed(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []payment.Lookup{payment.ByOrderID("order_1"), payment.ByGatewayPaymentID("pay_1")}, uc.got.Lookups)
	assert.Equal(t, "Card declined", uc.got.Reason)
}

func TestPaymentHandler_MarkPaymentFailed_ReasonOptional(t *testing.T) {
	uc := &mockMarkFailedUC{result: &paymentUsecases.MarkPaymentFailedResult{Success: true, PaymentID: 5, Status: "failed"}}
	handler := newTestPaymentHandler(nil, nil, nil, uc, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/payments/fail", map[string]interface{}{"paymentId": 5})

	handler.MarkPaymentFailed(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, uc.called)
	assert.Equal(t, []payment.Lookup{payment.ByID(5)}, uc.got.Lookups)
	assert.Empty(t, uc.got.Reason)
}

func TestPaymentHandler_MarkPaymentFailed_RequiresIdentifier(t *testing.T) {
	uc := &mockMarkFailedUC{}
	handler := newTestPaymentHandler(nil, nil, nil, uc, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/payments/fail", map[string]string{"reason": "x"})

	handler.MarkPaymentFailed(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, uc.called)
}

func TestPaymentHandler_MarkPaymentFailed_AlreadyResolved(t *testing.T) {
	uc := &mockMarkFailedUC{result: &paymentUsecases.MarkPaymentFailedResult{
		Success:       false,
		PaymentID:     5,
		Message:       "Payment already paid",
		CurrentStatus: "paid",
	}}
	handler := newTestPaymentHandler(nil, nil, nil, uc, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/payments/fail", MarkPaymentFailedRequest{PaymentID: 5, Reason: "late"})

	handler.MarkPaymentFailed(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var data paymentUsecases.MarkPaymentFailedResult
	resp, err := testutil.ParseData(w, &data)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Payment already paid", resp.Message)
	assert.Equal(t, "paid", data.CurrentStatus)
}
