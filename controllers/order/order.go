package orderController

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"smmpanel/config"
	"smmpanel/counts"
	"smmpanel/database"
	"smmpanel/ledger"
	"smmpanel/middleware"
	"smmpanel/models"
	"smmpanel/realtime"
	orderValidator "smmpanel/validators/order"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// forwardTransitions is the only allowed status flow. There is no path
// backwards: corrections happen by advancing, never by rewinding.
var forwardTransitions = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:    models.OrderStatusInProgress,
	models.OrderStatusInProgress: models.OrderStatusActive,
	models.OrderStatusActive:     models.OrderStatusCompleted,
}

// PlaceOrder charges the account and creates the order as one atomic
// unit: either the debit and the order row both exist afterwards, or
// neither does. The order reference doubles as the debit's causal id.
func PlaceOrder(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedPlaceOrder").(*orderValidator.PlaceOrderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var service models.Service
	if err := db.Where("id = ? AND is_active = true", reqData.ServiceID).First(&service).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Service not found or inactive!", nil)
	}

	minQuantity := service.MinQuantity
	if minQuantity <= 0 {
		minQuantity = config.AppConfig.MinOrderQuantity
	}
	if reqData.Quantity < minQuantity {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"quantity": fmt.Sprintf("Minimum order quantity is %d!", minQuantity),
		})
	}

	// Frozen at placement; never recomputed from the catalog afterwards.
	total := math.Round(service.PricePer1000/1000*float64(reqData.Quantity)*100) / 100

	order := models.Order{
		Reference:   uuid.NewString(),
		UserID:      userId,
		ServiceID:   service.ID,
		Quantity:    reqData.Quantity,
		Link:        reqData.Link,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}

	err := ledger.RunInTransaction(db, func(tx *gorm.DB) error {
		if _, err := ledger.DebitTx(tx, userId, total, order.Reference, "Order: "+service.Name); err != nil {
			return err
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient funds, please add funds first!", nil)
		case errors.Is(err, ledger.ErrConflict):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Concurrent update, please retry!", nil)
		default:
			log.Printf("Error placing order: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to place order!", nil)
		}
	}

	realtime.Publish(realtime.TopicOrders, userId)
	realtime.Publish(realtime.TopicBalance, userId)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order placed successfully!", fiber.Map{
		"orderId":     order.ID,
		"reference":   order.Reference,
		"service":     service.Name,
		"quantity":    order.Quantity,
		"totalAmount": order.TotalAmount,
		"status":      order.Status,
	})
}

// ListOrders returns the user's own orders
func ListOrders(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Order{}).Where("user_id = ?", userId)

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Preload("Service").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch orders!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminListOrders returns all orders, filterable by status
func AdminListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Preload("Service").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch orders!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdvanceOrder moves an order one step forward. The charge happened at
// placement, so this has no ledger effect. Backward or skipped
// transitions are rejected.
func AdvanceOrder(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdvanceOrder").(*orderValidator.AdvanceOrderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var order models.Order
	if err := db.Where("id = ?", reqData.OrderID).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	newStatus := models.OrderStatus(reqData.Status)
	if forwardTransitions[order.Status] != newStatus {
		return middleware.JsonResponse(c, fiber.StatusConflict, false,
			fmt.Sprintf("Invalid status transition %s -> %s!", order.Status, newStatus), nil)
	}

	// Guarded by the current status so two racing admins cannot both win.
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		UpdateColumn("status", newStatus)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update order!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order was updated concurrently, please retry!", nil)
	}

	realtime.Publish(realtime.TopicOrders, order.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order status updated!", fiber.Map{
		"orderId": order.ID,
		"status":  newStatus,
	})
}

// RecordProgress stores delivery telemetry. Counts are informational;
// a current count is only meaningful once a start time exists. When the
// caller sends no counts and a provider is configured, a live snapshot
// of the target link fills them in.
func RecordProgress(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRecordProgress").(*orderValidator.RecordProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var order models.Order
	if err := db.Where("id = ?", reqData.OrderID).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	updates := make(map[string]interface{})

	startTime := order.StartTime
	if reqData.StartTime != nil {
		startTime = reqData.StartTime
		updates["start_time"] = *reqData.StartTime
	}

	if reqData.BeforeCount != nil {
		updates["before_count"] = *reqData.BeforeCount
	}
	if reqData.CurrentCount != nil {
		if startTime == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"currentCount": "Cannot record a current count before the order has a start time!",
			})
		}
		updates["current_count"] = *reqData.CurrentCount
	}

	// Nothing explicit: snapshot the live count from the provider.
	if reqData.BeforeCount == nil && reqData.CurrentCount == nil && counts.Enabled() {
		snapshot, err := counts.Snapshot(order.Link)
		if err != nil {
			log.Printf("Counts snapshot failed for order %d: %v", order.ID, err)
		} else if startTime == nil || order.BeforeCount == nil {
			updates["before_count"] = snapshot
		} else {
			updates["current_count"] = snapshot
		}
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to record!", nil)
	}
	updates["updated_at"] = time.Now()

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}

	realtime.Publish(realtime.TopicOrders, order.UserID)

	var updated models.Order
	db.Where("id = ?", order.ID).First(&updated)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order progress recorded!", fiber.Map{
		"orderId":      updated.ID,
		"startTime":    updated.StartTime,
		"beforeCount":  updated.BeforeCount,
		"currentCount": updated.CurrentCount,
	})
}
