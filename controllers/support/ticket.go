package supportController

import (
	"log"
	"strings"

	"smmpanel/config"
	"smmpanel/database"
	"smmpanel/middleware"
	"smmpanel/models"
	"smmpanel/realtime"
	supportValidator "smmpanel/validators/support"

	"github.com/gofiber/fiber/v2"
)

// CreateTicket opens a new support ticket for the user
func CreateTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCreateTicket").(*supportValidator.CreateTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ticket := models.SupportTicket{
		UserID:   userId,
		Subject:  reqData.Subject,
		Message:  reqData.Message,
		Priority: models.TicketPriorityMedium,
		Status:   models.TicketStatusOpen,
	}
	if reqData.Priority != "" {
		ticket.Priority = models.TicketPriority(reqData.Priority)
	}

	if err := database.Database.Db.Create(&ticket).Error; err != nil {
		log.Printf("Error creating support ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create support ticket!", nil)
	}

	realtime.Publish(realtime.TopicTickets, userId)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Support ticket created successfully!", ticket)
}

// TicketList returns the user's own tickets
func TicketList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.SupportTicket{}).Where("user_id = ? AND is_deleted = false", userId)

	var total int64
	db.Count(&total)

	var tickets []models.SupportTicket
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminTicketList returns all tickets, filterable by status and priority
func AdminTicketList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")
	priority := c.Query("priority")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.SupportTicket{}).Where("is_deleted = false")
	if status != "" {
		db = db.Where("status = ?", strings.ToUpper(status))
	}
	if priority != "" {
		db = db.Where("priority = ?", strings.ToUpper(priority))
	}

	var total int64
	db.Count(&total)

	var tickets []models.SupportTicket
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ListReplies returns a ticket's thread in creation order. The owner
// and any admin may read it.
func ListReplies(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	ticketId := c.QueryInt("ticketId", 0)
	if ticketId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ticketId is required!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var ticket models.SupportTicket
	if err := db.Where("id = ? AND is_deleted = false", ticketId).First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	if ticket.UserID != userId && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	var replies []models.TicketReply
	if err := db.Where("ticket_id = ?", ticket.ID).Order("created_at ASC, id ASC").Find(&replies).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch replies!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Replies fetched successfully!", fiber.Map{
		"ticket":  ticket,
		"replies": replies,
	})
}

// ReplyTicket appends a message to a ticket thread. Users may only
// reply to their own open tickets; admins may reply to closed tickets
// when the policy allows it.
func ReplyTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReplyTicket").(*supportValidator.ReplyTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}
	isAdmin := user.Role == "ADMIN"

	var ticket models.SupportTicket
	if err := db.Where("id = ? AND is_deleted = false", reqData.TicketID).First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	if !isAdmin && ticket.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	if ticket.Status == models.TicketStatusClosed {
		if !isAdmin {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Ticket is closed!", nil)
		}
		if !config.AppConfig.TicketAdminReplyWhenClosed {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Ticket is closed!", nil)
		}
	}

	reply := models.TicketReply{
		TicketID:     ticket.ID,
		AuthorID:     userId,
		IsAdminReply: isAdmin,
		Message:      reqData.Message,
	}

	if err := db.Create(&reply).Error; err != nil {
		log.Printf("Error creating ticket reply: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send reply!", nil)
	}

	realtime.Publish(realtime.TopicTickets, ticket.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply sent!", reply)
}

// CloseTicket closes a ticket. The owner or an admin may close it.
func CloseTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTicketAction").(*supportValidator.TicketActionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var ticket models.SupportTicket
	if err := db.Where("id = ? AND is_deleted = false", reqData.TicketID).First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	if ticket.UserID != userId && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	if err := db.Model(&ticket).UpdateColumn("status", models.TicketStatusClosed).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close ticket!", nil)
	}

	realtime.Publish(realtime.TopicTickets, ticket.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket closed!", fiber.Map{
		"ticketId": ticket.ID,
		"status":   models.TicketStatusClosed,
	})
}

// ReopenTicket reopens a closed ticket (Admin only)
func ReopenTicket(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTicketAction").(*supportValidator.TicketActionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var ticket models.SupportTicket
	if err := db.Where("id = ? AND is_deleted = false", reqData.TicketID).First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	if err := db.Model(&ticket).UpdateColumn("status", models.TicketStatusOpen).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reopen ticket!", nil)
	}

	realtime.Publish(realtime.TopicTickets, ticket.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket reopened!", fiber.Map{
		"ticketId": ticket.ID,
		"status":   models.TicketStatusOpen,
	})
}
