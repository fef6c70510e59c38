package models

import "gorm.io/gorm"

// TicketStatus defines the lifecycle of a support ticket
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// TicketPriority defines the urgency of a support ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

type SupportTicket struct {
	gorm.Model
	UserID   uint           `gorm:"not null;index" json:"userId"`
	Subject  string         `gorm:"not null" json:"subject"`
	Message  string         `gorm:"type:text;not null" json:"message"`
	Priority TicketPriority `gorm:"type:varchar(10);default:'MEDIUM'" json:"priority"`
	Status   TicketStatus   `gorm:"type:varchar(10);default:'OPEN'" json:"status"`

	IsDeleted bool `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// TicketReply is one message in a ticket thread. Rows are append-only;
// creation order is display order.
type TicketReply struct {
	gorm.Model
	TicketID     uint   `gorm:"not null;index" json:"ticketId"`
	AuthorID     uint   `gorm:"not null" json:"authorId"`
	IsAdminReply bool   `gorm:"default:false" json:"isAdminReply"`
	Message      string `gorm:"type:text;not null" json:"message"`
}

func (TicketReply) TableName() string {
	return "ticket_replies"
}
