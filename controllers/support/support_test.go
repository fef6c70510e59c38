package supportController_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"smmpanel/config"
	"smmpanel/database"
	"smmpanel/middleware"
	"smmpanel/models"
	supportRoutes "smmpanel/routers/supportRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T, adminReplyWhenClosed bool) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:                       "0",
		JWTKey:                     "test-secret",
		SaltRound:                  4,
		TicketAdminReplyWhenClosed: adminReplyWhenClosed,
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
	supportRoutes.SetupSupportRoutes(app)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()

	user := models.User{Name: "Test", Email: email, Password: "hashed", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTicket(t *testing.T, db *gorm.DB, userID uint, status models.TicketStatus) models.SupportTicket {
	t.Helper()

	ticket := models.SupportTicket{
		UserID:   userID,
		Subject:  "Order stuck",
		Message:  "My order has not started yet.",
		Priority: models.TicketPriorityMedium,
		Status:   status,
	}
	require.NoError(t, db.Create(&ticket).Error)
	return ticket
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

func TestCreateTicketDefaultsToOpenMedium(t *testing.T) {
	app, db := setupApp(t, true)
	user := createUser(t, db, "user@example.com", "USER")

	resp, body := doRequest(t, app, "POST", "/support/create", tokenFor(t, user), fiber.Map{
		"subject": "Payment question",
		"message": "Which account do I pay into?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var ticket models.SupportTicket
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&ticket).Error)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	assert.Equal(t, models.TicketPriorityMedium, ticket.Priority)
}

func TestThreadKeepsCreationOrderAndAuthorTags(t *testing.T) {
	app, db := setupApp(t, true)
	user := createUser(t, db, "user@example.com", "USER")
	admin := createUser(t, db, "admin@example.com", "ADMIN")
	ticket := createTicket(t, db, user.ID, models.TicketStatusOpen)

	messages := []struct {
		author models.User
		text   string
	}{
		{user, "Order 42 is stuck at pending."},
		{admin, "Looking into it now."},
		{user, "Thanks, any update?"},
		{admin, "Resolved, delivery has started."},
	}
	for _, m := range messages {
		resp, body := doRequest(t, app, "POST", "/support/reply", tokenFor(t, m.author), fiber.Map{
			"ticketId": ticket.ID,
			"message":  m.text,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
	}

	resp, body := doRequest(t, app, "GET", "/support/replies?ticketId="+itoa(ticket.ID), tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	replies := data["replies"].([]any)
	require.Len(t, replies, 4)

	for i, m := range messages {
		reply := replies[i].(map[string]any)
		assert.Equal(t, m.text, reply["message"])
		assert.Equal(t, m.author.Role == "ADMIN", reply["isAdminReply"])
		assert.Equal(t, float64(m.author.ID), reply["authorId"])
	}
}

func TestUserCannotReplyToClosedTicket(t *testing.T) {
	app, db := setupApp(t, true)
	user := createUser(t, db, "user@example.com", "USER")
	ticket := createTicket(t, db, user.ID, models.TicketStatusClosed)

	resp, _ := doRequest(t, app, "POST", "/support/reply", tokenFor(t, user), fiber.Map{
		"ticketId": ticket.ID,
		"message":  "Hello?",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.TicketReply{}).Where("ticket_id = ?", ticket.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAdminReplyToClosedTicketFollowsPolicy(t *testing.T) {
	app, db := setupApp(t, true)
	user := createUser(t, db, "user@example.com", "USER")
	admin := createUser(t, db, "admin@example.com", "ADMIN")
	ticket := createTicket(t, db, user.ID, models.TicketStatusClosed)

	resp, body := doRequest(t, app, "POST", "/support/reply", tokenFor(t, admin), fiber.Map{
		"ticketId": ticket.ID,
		"message":  "Closing note for the record.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	// With the policy off the same reply is rejected.
	config.AppConfig.TicketAdminReplyWhenClosed = false
	resp, _ = doRequest(t, app, "POST", "/support/reply", tokenFor(t, admin), fiber.Map{
		"ticketId": ticket.ID,
		"message":  "One more thing.",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUserCannotReplyToForeignTicket(t *testing.T) {
	app, db := setupApp(t, true)
	owner := createUser(t, db, "owner@example.com", "USER")
	intruder := createUser(t, db, "intruder@example.com", "USER")
	ticket := createTicket(t, db, owner.ID, models.TicketStatusOpen)

	resp, _ := doRequest(t, app, "POST", "/support/reply", tokenFor(t, intruder), fiber.Map{
		"ticketId": ticket.ID,
		"message":  "Me too!",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/support/replies?ticketId="+itoa(ticket.ID), tokenFor(t, intruder), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCloseAndReopenTicket(t *testing.T) {
	app, db := setupApp(t, true)
	user := createUser(t, db, "user@example.com", "USER")
	admin := createUser(t, db, "admin@example.com", "ADMIN")
	ticket := createTicket(t, db, user.ID, models.TicketStatusOpen)

	resp, _ := doRequest(t, app, "POST", "/support/close", tokenFor(t, user), fiber.Map{
		"ticketId": ticket.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&ticket, ticket.ID).Error)
	assert.Equal(t, models.TicketStatusClosed, ticket.Status)

	// Reopening is admin-only.
	resp, _ = doRequest(t, app, "POST", "/support/admin/reopen", tokenFor(t, user), fiber.Map{
		"ticketId": ticket.ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/support/admin/reopen", tokenFor(t, admin), fiber.Map{
		"ticketId": ticket.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&ticket, ticket.ID).Error)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)

	// Reopened means the owner can post again.
	resp, _ = doRequest(t, app, "POST", "/support/reply", tokenFor(t, user), fiber.Map{
		"ticketId": ticket.ID,
		"message":  "Still seeing the issue.",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTicketListScopes(t *testing.T) {
	app, db := setupApp(t, true)
	user := createUser(t, db, "user@example.com", "USER")
	other := createUser(t, db, "other@example.com", "USER")
	admin := createUser(t, db, "admin@example.com", "ADMIN")

	createTicket(t, db, user.ID, models.TicketStatusOpen)
	createTicket(t, db, other.ID, models.TicketStatusClosed)

	resp, body := doRequest(t, app, "GET", "/support/list", tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Len(t, data["tickets"].([]any), 1)

	resp, body = doRequest(t, app, "GET", "/support/admin/list", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Len(t, data["tickets"].([]any), 2)

	resp, body = doRequest(t, app, "GET", "/support/admin/list?status=closed", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Len(t, data["tickets"].([]any), 1)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
