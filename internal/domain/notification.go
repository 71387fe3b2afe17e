package domain

// NotificationType classifies a notification record for the delivery layer.
type NotificationType string

const (
	NotificationTicketClosed NotificationType = "TICKET_CLOSED"
)

// Notification is a write-only record handed to the delivery subsystem.
// The engine produces these; it never consumes them.
type Notification struct {
	UserID        string
	Title         string
	Message       string
	Type          NotificationType
	ReferenceType string
	ReferenceID   string
	IsRead        bool
}
