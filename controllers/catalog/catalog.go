package catalogController

import (
	"log"

	"smmpanel/config"
	"smmpanel/database"
	"smmpanel/middleware"
	"smmpanel/models"
	catalogValidator "smmpanel/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

// ListServices returns all active catalog services, ordered by category
func ListServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := database.Database.Db.
		Where("is_active = true").
		Order("category ASC, name ASC").
		Find(&services).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch services!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Services fetched!", fiber.Map{
		"services": services,
	})
}

// AdminListServices returns every service including inactive ones
func AdminListServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := database.Database.Db.
		Order("category ASC, name ASC").
		Find(&services).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch services!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Services fetched!", fiber.Map{
		"services": services,
	})
}

// CreateService adds a catalog item (Admin only)
func CreateService(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateService").(*catalogValidator.CreateServiceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := models.Service{
		Name:         reqData.Name,
		Category:     reqData.Category,
		Description:  reqData.Description,
		PricePer1000: reqData.PricePer1000,
		MinQuantity:  reqData.MinQuantity,
		IsActive:     true,
	}
	if service.Category == "" {
		service.Category = "general"
	}
	if service.MinQuantity == 0 {
		service.MinQuantity = config.AppConfig.MinOrderQuantity
	}

	if err := database.Database.Db.Create(&service).Error; err != nil {
		log.Printf("Error creating service: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create service!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Service created!", service)
}

// UpdateService changes catalog fields or toggles availability (Admin only)
func UpdateService(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUpdateService").(*catalogValidator.UpdateServiceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var service models.Service
	if err := db.Where("id = ?", reqData.ServiceID).First(&service).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Service not found!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.PricePer1000 != nil {
		updates["price_per_1000"] = *reqData.PricePer1000
	}
	if reqData.MinQuantity != nil {
		updates["min_quantity"] = *reqData.MinQuantity
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&service).Updates(updates).Error; err != nil {
		log.Printf("Error updating service %d: %v", service.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update service!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Service updated!", service)
}
