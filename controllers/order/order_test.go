package orderController_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smmpanel/config"
	"smmpanel/database"
	"smmpanel/ledger"
	"smmpanel/middleware"
	"smmpanel/models"
	orderRoutes "smmpanel/routers/orderRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:             "0",
		JWTKey:           "test-secret",
		SaltRound:        4,
		MinDepositAmount: 1.00,
		MinOrderQuantity: 100,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.LedgerEntry{}, &models.Deposit{},
		&models.Service{}, &models.Order{},
		&models.SupportTicket{}, &models.TicketReply{},
	))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	orderRoutes.SetupOrderRoutes(app)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email, role string, balance float64) models.User {
	t.Helper()

	user := models.User{Name: "Test", Email: email, Password: "hashed", Role: role}
	require.NoError(t, db.Create(&user).Error)

	if balance > 0 {
		_, err := ledger.Credit(db, user.ID, balance, "deposit:seed-"+email, "Test funding")
		require.NoError(t, err)
	}
	return user
}

func createService(t *testing.T, db *gorm.DB, pricePer1000 float64, minQuantity int, active bool) models.Service {
	t.Helper()

	service := models.Service{
		Name:         "YouTube Views",
		Category:     "youtube",
		PricePer1000: pricePer1000,
		MinQuantity:  minQuantity,
		IsActive:     active,
	}
	require.NoError(t, db.Create(&service).Error)
	if !active {
		// The column default would override a zero value on insert.
		require.NoError(t, db.Model(&service).UpdateColumn("is_active", false).Error)
	}
	return service
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.Balance
}

func TestPlaceOrderChargesAndFreezesTotal(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 10.00)
	service := createService(t, db, 2.50, 100, true)

	resp, body := doRequest(t, app, "POST", "/orders", tokenFor(t, user), fiber.Map{
		"serviceId": service.ID,
		"quantity":  1000,
		"link":      "https://youtube.com/watch?v=abc123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	assert.Equal(t, 7.50, balanceOf(t, db, user.ID))

	var order models.Order
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&order).Error)
	assert.Equal(t, 2.50, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	// The debit's causal id is the order reference.
	var entry models.LedgerEntry
	require.NoError(t, db.Where("event_id = ?", order.Reference).First(&entry).Error)
	assert.Equal(t, -2.50, entry.Delta)

	// A later price change never touches the frozen total.
	require.NoError(t, db.Model(&service).UpdateColumn("price_per_1000", 99.00).Error)
	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, 2.50, order.TotalAmount)
}

func TestPlaceOrderInsufficientFunds(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 5.00)
	service := createService(t, db, 25.00, 100, true)

	resp, _ := doRequest(t, app, "POST", "/orders", tokenFor(t, user), fiber.Map{
		"serviceId": service.ID,
		"quantity":  1000,
		"link":      "https://youtube.com/watch?v=abc123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The rejected placement leaves nothing behind: no order, no
	// debit entry, balance untouched.
	assert.Equal(t, 5.00, balanceOf(t, db, user.ID))

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 0, orders)

	var entries int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Where("delta < 0").Count(&entries).Error)
	assert.EqualValues(t, 0, entries)
}

func TestPlaceOrderBelowMinimumQuantity(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 50.00)
	service := createService(t, db, 2.50, 100, true)

	resp, _ := doRequest(t, app, "POST", "/orders", tokenFor(t, user), fiber.Map{
		"serviceId": service.ID,
		"quantity":  50,
		"link":      "https://youtube.com/watch?v=abc123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Equal(t, 50.00, balanceOf(t, db, user.ID))

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 0, orders)
}

func TestPlaceOrderInactiveService(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 50.00)
	service := createService(t, db, 2.50, 100, false)

	resp, _ := doRequest(t, app, "POST", "/orders", tokenFor(t, user), fiber.Map{
		"serviceId": service.ID,
		"quantity":  1000,
		"link":      "https://youtube.com/watch?v=abc123",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 50.00, balanceOf(t, db, user.ID))
}

func TestAdvanceOrderFollowsForwardFlow(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 0)
	admin := createUser(t, db, "admin@example.com", "ADMIN", 0)
	service := createService(t, db, 2.50, 100, true)

	order := models.Order{UserID: user.ID, ServiceID: service.ID, Quantity: 1000,
		Link: "https://youtube.com/watch?v=abc123", TotalAmount: 2.50, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	for _, status := range []string{"IN_PROGRESS", "ACTIVE", "COMPLETED"} {
		resp, body := doRequest(t, app, "POST", "/orders/admin/advance", tokenFor(t, admin), fiber.Map{
			"orderId": order.ID,
			"status":  status,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
	}

	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestAdvanceOrderRejectsSkippedStep(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 0)
	admin := createUser(t, db, "admin@example.com", "ADMIN", 0)
	service := createService(t, db, 2.50, 100, true)

	order := models.Order{UserID: user.ID, ServiceID: service.ID, Quantity: 1000,
		Link: "https://youtube.com/watch?v=abc123", TotalAmount: 2.50, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	resp, _ := doRequest(t, app, "POST", "/orders/admin/advance", tokenFor(t, admin), fiber.Map{
		"orderId": order.ID,
		"status":  "COMPLETED",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestAdvanceOrderRejectsBackwardStep(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 0)
	admin := createUser(t, db, "admin@example.com", "ADMIN", 0)
	service := createService(t, db, 2.50, 100, true)

	order := models.Order{UserID: user.ID, ServiceID: service.ID, Quantity: 1000,
		Link: "https://youtube.com/watch?v=abc123", TotalAmount: 2.50, Status: models.OrderStatusActive}
	require.NoError(t, db.Create(&order).Error)

	// ACTIVE may only move to COMPLETED.
	resp, _ := doRequest(t, app, "POST", "/orders/admin/advance", tokenFor(t, admin), fiber.Map{
		"orderId": order.ID,
		"status":  "IN_PROGRESS",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// PENDING is not a valid target at all.
	resp, _ = doRequest(t, app, "POST", "/orders/admin/advance", tokenFor(t, admin), fiber.Map{
		"orderId": order.ID,
		"status":  "PENDING",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, models.OrderStatusActive, order.Status)
}

func TestAdvanceOrderRequiresAdmin(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 0)

	resp, _ := doRequest(t, app, "POST", "/orders/admin/advance", tokenFor(t, user), fiber.Map{
		"orderId": 1,
		"status":  "IN_PROGRESS",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRecordProgressRequiresStartTimeForCurrentCount(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 0)
	admin := createUser(t, db, "admin@example.com", "ADMIN", 0)
	service := createService(t, db, 2.50, 100, true)

	order := models.Order{UserID: user.ID, ServiceID: service.ID, Quantity: 1000,
		Link: "https://youtube.com/watch?v=abc123", TotalAmount: 2.50, Status: models.OrderStatusInProgress}
	require.NoError(t, db.Create(&order).Error)

	resp, _ := doRequest(t, app, "POST", "/orders/admin/progress", tokenFor(t, admin), fiber.Map{
		"orderId":      order.ID,
		"currentCount": 500,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Start time and count together in one call is fine.
	start := time.Now().UTC().Truncate(time.Second)
	resp, body := doRequest(t, app, "POST", "/orders/admin/progress", tokenFor(t, admin), fiber.Map{
		"orderId":      order.ID,
		"startTime":    start,
		"beforeCount":  1200,
		"currentCount": 1700,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	require.NoError(t, db.First(&order, order.ID).Error)
	require.NotNil(t, order.StartTime)
	require.NotNil(t, order.BeforeCount)
	require.NotNil(t, order.CurrentCount)
	assert.Equal(t, 1200, *order.BeforeCount)
	assert.Equal(t, 1700, *order.CurrentCount)
}

func TestPlaceOrderFallsBackToConfiguredMinimum(t *testing.T) {
	app, db := setupApp(t)
	config.AppConfig.MinOrderQuantity = 250
	user := createUser(t, db, "user@example.com", "USER", 50.00)
	service := createService(t, db, 2.50, 100, true)
	require.NoError(t, db.Model(&service).UpdateColumn("min_quantity", 0).Error)

	resp, _ := doRequest(t, app, "POST", "/orders", tokenFor(t, user), fiber.Map{
		"serviceId": service.ID,
		"quantity":  200,
		"link":      "https://youtube.com/watch?v=abc123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body := doRequest(t, app, "POST", "/orders", tokenFor(t, user), fiber.Map{
		"serviceId": service.ID,
		"quantity":  250,
		"link":      "https://youtube.com/watch?v=abc123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
}

func TestListOrdersReturnsOwnOnly(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, db, "user@example.com", "USER", 0)
	other := createUser(t, db, "other@example.com", "USER", 0)
	service := createService(t, db, 2.50, 100, true)

	require.NoError(t, db.Create(&models.Order{UserID: user.ID, ServiceID: service.ID, Quantity: 1000,
		Link: "https://youtube.com/a", TotalAmount: 2.50}).Error)
	require.NoError(t, db.Create(&models.Order{UserID: other.ID, ServiceID: service.ID, Quantity: 1000,
		Link: "https://youtube.com/b", TotalAmount: 2.50}).Error)

	resp, body := doRequest(t, app, "GET", "/orders", tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	orders := data["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, float64(user.ID), orders[0].(map[string]any)["userId"])
}
