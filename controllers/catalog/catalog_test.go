package catalogController_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smmpanel/config"
	"smmpanel/database"
	"smmpanel/middleware"
	"smmpanel/models"
	catalogRoutes "smmpanel/routers/catalogRoutes"

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

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Service{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	catalogRoutes.SetupCatalogRoutes(app)
	return app, db
}

func createAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "hashed", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)
	return admin
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

func TestCreateServiceDefaultsMinimumFromConfig(t *testing.T) {
	app, db := setupApp(t)
	config.AppConfig.MinOrderQuantity = 500
	admin := createAdmin(t, db)

	resp, body := doRequest(t, app, "POST", "/services/admin/create", tokenFor(t, admin), fiber.Map{
		"name":         "TikTok Views",
		"category":     "tiktok",
		"pricePer1000": 0.90,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var service models.Service
	require.NoError(t, db.Where("name = ?", "TikTok Views").First(&service).Error)
	assert.Equal(t, 500, service.MinQuantity)
	assert.Equal(t, "tiktok", service.Category)
	assert.True(t, service.IsActive)
}

func TestListServicesHidesInactive(t *testing.T) {
	app, db := setupApp(t)

	require.NoError(t, db.Create(&models.Service{Name: "Active", PricePer1000: 1.00, MinQuantity: 100, IsActive: true}).Error)
	hidden := models.Service{Name: "Hidden", PricePer1000: 1.00, MinQuantity: 100}
	require.NoError(t, db.Create(&hidden).Error)
	require.NoError(t, db.Model(&hidden).UpdateColumn("is_active", false).Error)

	resp, body := doRequest(t, app, "GET", "/services", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	services := data["services"].([]any)
	require.Len(t, services, 1)
	assert.Equal(t, "Active", services[0].(map[string]any)["name"])
}

func TestUpdateServiceTogglesAvailability(t *testing.T) {
	app, db := setupApp(t)
	admin := createAdmin(t, db)

	service := models.Service{Name: "Views", PricePer1000: 2.50, MinQuantity: 100, IsActive: true}
	require.NoError(t, db.Create(&service).Error)

	resp, body := doRequest(t, app, "POST", "/services/admin/update", tokenFor(t, admin), fiber.Map{
		"serviceId":    service.ID,
		"pricePer1000": 3.00,
		"isActive":     false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	require.NoError(t, db.First(&service, service.ID).Error)
	assert.Equal(t, 3.00, service.PricePer1000)
	assert.False(t, service.IsActive)
}
