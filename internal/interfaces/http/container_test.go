package http

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	subscriptionUsecases "github.com/buildhomemart/homemart/internal/application/subscription/usecases"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/infrastructure/config"
	"github.com/buildhomemart/homemart/internal/infrastructure/payment/razorpay"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	sharedConfig "github.com/buildhomemart/homemart/internal/shared/config"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const testWebhookSecret = "whsec_test"

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	container *Container
	db        *gorm.DB
	redis     *redis.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.PaymentModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.PropertyModel{},
		&models.UserModel{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Razorpay: sharedConfig.RazorpayConfig{
			KeyID:         "rzp_test",
			KeySecret:     "secret",
			WebhookSecret: testWebhookSecret,
			BaseURL:       "http://127.0.0.1:1",
		},
		Reconciler: sharedConfig.ReconcilerConfig{Enabled: false},
	}

	c := NewContainer(gdb, client, cfg, logger.NewNop())
	c.SetupRoutes()
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })

	return &testApp{container: c, db: gdb, redis: client}
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	a.container.GetEngine().ServeHTTP(w, req)
	return w
}

func (a *testApp) seedPendingPurchase(t *testing.T) (paymentID, subscriptionID uint) {
	t.Helper()
	now := time.Now().UTC()

	sub := &models.SubscriptionModel{
		UserID:       1,
		PlanID:       1,
		Status:       "pending",
		StartDate:    now,
		EndDate:      now.AddDate(0, 1, 0),
		Amount:       99900,
		BillingCycle: "monthly",
	}
	require.NoError(t, a.db.Create(sub).Error)

	pay := &models.PaymentModel{
		GatewayOrderID: "order_9A33XWu170gUtm",
		SubscriptionID: &sub.ID,
		UserID:         1,
		Amount:         99900,
		Currency:       "INR",
		Type:           "subscription_purchase",
		Status:         "pending",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, a.db.Create(pay).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, a.db.Create(&models.PropertyModel{OwnerID: 1, Archived: true, IsFreeListing: true}).Error)
	}
	require.NoError(t, a.db.Create(&models.PropertyModel{OwnerID: 1}).Error)
	require.NoError(t, a.db.Create(&models.PropertyModel{OwnerID: 2, Archived: true}).Error)

	return pay.ID, sub.ID
}

func signedWebhook(t *testing.T, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.HeaderRazorpaySignature, hex.EncodeToString(razorpay.Sign([]byte(testWebhookSecret), body)))
	return req
}

func TestContainer_Health(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
}

func TestContainer_CapturedWebhookSettlesPurchase(t *testing.T) {
	app := newTestApp(t)
	paymentID, subscriptionID := app.seedPendingPurchase(t)
	ctx := context.Background()

	events := app.redis.Subscribe(ctx, constants.RedisChannelSubscriptionEv)
	defer events.Close()
	_, err := events.Receive(ctx)
	require.NoError(t, err)

	w := app.do(t, signedWebhook(t, map[string]interface{}{
		"event": "payment.captured",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":       "pay_29QQoUBi66xm2f",
					"order_id": "order_9A33XWu170gUtm",
					"status":   "captured",
				},
			},
		},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pay models.PaymentModel
	require.NoError(t, app.db.First(&pay, paymentID).Error)
	assert.Equal(t, "paid", pay.Status)
	require.NotNil(t, pay.GatewayPaymentID)
	assert.Equal(t, "pay_29QQoUBi66xm2f", *pay.GatewayPaymentID)

	var sub models.SubscriptionModel
	require.NoError(t, app.db.First(&sub, subscriptionID).Error)
	assert.Equal(t, "active", sub.Status)

	var archived int64
	require.NoError(t, app.db.Model(&models.PropertyModel{}).Where("owner_id = ? AND archived = ?", 1, true).Count(&archived).Error)
	assert.Zero(t, archived)
	var otherOwner int64
	require.NoError(t, app.db.Model(&models.PropertyModel{}).Where("owner_id = ? AND archived = ?", 2, true).Count(&otherOwner).Error)
	assert.Equal(t, int64(1), otherOwner)

	msg, err := events.ReceiveMessage(ctx)
	require.NoError(t, err)
	var event subscription.StatusChangedEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, subscriptionID, event.SubscriptionID)
	assert.Equal(t, "active", event.Status)
	assert.Equal(t, paymentID, event.PaymentID)

	// a redelivery is acknowledged without another transition
	w = app.do(t, signedWebhook(t, map[string]interface{}{
		"event": "payment.captured",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{"id": "pay_29QQoUBi66xm2f", "order_id": "order_9A33XWu170gUtm"},
			},
		},
	}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContainer_WebhookRejectsBadSignature(t *testing.T) {
	app := newTestApp(t)
	paymentID, _ := app.seedPendingPurchase(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay",
		bytes.NewReader([]byte(`{"event":"payment.captured"}`)))
	req.Header.Set(constants.HeaderRazorpaySignature, "00ff")

	w := app.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var pay models.PaymentModel
	require.NoError(t, app.db.First(&pay, paymentID).Error)
	assert.Equal(t, "pending", pay.Status)
}

func TestContainer_ManualFailureAndStatus(t *testing.T) {
	app := newTestApp(t)
	_, subscriptionID := app.seedPendingPurchase(t)

	body := []byte(`{"orderId":"order_9A33XWu170gUtm","reason":"Card declined"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/fail", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub models.SubscriptionModel
	require.NoError(t, app.db.First(&sub, subscriptionID).Error)
	assert.Equal(t, "cancelled", sub.Status)
	require.NotNil(t, sub.CancellationReason)
	assert.Contains(t, *sub.CancellationReason, "Card declined")

	req = httptest.NewRequest(http.MethodPost, "/api/payments/fail", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = app.do(t, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"currentStatus":"failed"`)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/payments/order_9A33XWu170gUtm/status", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/payments/order_missing/status", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContainer_ManualFailureDefaultsReason(t *testing.T) {
	app := newTestApp(t)
	paymentID, _ := app.seedPendingPurchase(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/fail",
		bytes.NewReader([]byte(`{"orderId":"order_9A33XWu170gUtm"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pay models.PaymentModel
	require.NoError(t, app.db.First(&pay, paymentID).Error)
	assert.Equal(t, "failed", pay.Status)
	require.NotNil(t, pay.FailureReason)
	assert.Equal(t, "Payment failed during processing", *pay.FailureReason)
}

func TestContainer_ManualSweep(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/payments/cleanup/run", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/payments/cleanup", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isScheduled":false`)
	assert.Contains(t, w.Body.String(), `"lastRunAt"`)
}

func TestContainer_UnknownPlan(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plans/77/impact", bytes.NewReader([]byte(`{"price":100}`)))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(t, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContainer_SeedPlansIsAllOrNothing(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	result := app.container.SeedPlans().Execute(ctx, subscriptionUsecases.SeedPlansCommand{Plans: []dto.PlanSeed{
		{Identifier: "basic", Name: "Basic Plan", Price: 99900, BillingPeriod: "monthly"},
		{Identifier: "weekly", Name: "Weekly Plan", Price: 100, BillingPeriod: "weekly"},
	}})

	assert.False(t, result.Success)
	assert.Empty(t, result.Created)
	var count int64
	require.NoError(t, app.db.Model(&models.PlanModel{}).Count(&count).Error)
	assert.Zero(t, count, "valid entry must be rolled back with the bad one")

	result = app.container.SeedPlans().Execute(ctx, subscriptionUsecases.SeedPlansCommand{Plans: []dto.PlanSeed{
		{Identifier: "basic", Name: "Basic Plan", Price: 99900, BillingPeriod: "monthly"},
		{Identifier: "premium", Name: "Premium Plan", Price: 249900, BillingPeriod: "monthly"},
	}})

	require.True(t, result.Success, result.Errors)
	assert.Equal(t, []string{"basic", "premium"}, result.Created)
	require.NoError(t, app.db.Model(&models.PlanModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
