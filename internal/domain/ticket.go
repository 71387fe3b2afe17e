package domain

import "time"

// TicketStatus is reference data describing one lifecycle state. Statuses
// flagged IsFinal are terminal; tickets in a final status are never
// auto-close candidates.
type TicketStatus struct {
	ID      int64
	Name    string
	IsFinal bool
}

// Ticket is the subset of the ticket aggregate the auto-close engine reads.
// The engine only ever writes StatusID and UpdatedAt, through the closing
// transaction.
type Ticket struct {
	ID           string
	Number       int64
	Subject      string
	StatusID     int64
	RequesterID  string
	AssignedToID *string
	UpdatedAt    time.Time
}

// TicketContact carries the minimal fields needed to address notifications
// for a ticket.
type TicketContact struct {
	TicketID     string
	Number       int64
	Subject      string
	RequesterID  string
	AssignedToID *string
}
