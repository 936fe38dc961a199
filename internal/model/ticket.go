package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates ticket states.
type TicketStatus string

const (
	TicketStatusActive TicketStatus = "ACTIVE"
	TicketStatusUsed   TicketStatus = "USED"
	TicketStatusVoid   TicketStatus = "VOID"
)

// Ticket is a single-use pass binding one candidate to one exam version.
// The PIN is stored hashed; the plaintext is returned once at issuance.
type Ticket struct {
	ID            uuid.UUID    `json:"id"`
	Code          string       `json:"code"`
	PINHash       string       `json:"-"`
	CandidateID   uuid.UUID    `json:"candidate_id"`
	ExamVersionID uuid.UUID    `json:"exam_version_id"`
	Status        TicketStatus `json:"status"`
	IssuedBy      int          `json:"issued_by"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Candidate is the person taking an exam.
type Candidate struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueTicketsRequest batch-issues tickets for an exam version.
type IssueTicketsRequest struct {
	ExamVersionID uuid.UUID          `json:"exam_version_id" binding:"required"`
	Candidates    []CandidateRequest `json:"candidates" binding:"required,min=1,max=500,dive"`
}

// CandidateRequest identifies one candidate to issue a ticket for.
type CandidateRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

// IssuedTicket is the one-time issuance response carrying the plaintext PIN.
type IssuedTicket struct {
	TicketID  uuid.UUID `json:"ticket_id"`
	Code      string    `json:"code"`
	PIN       string    `json:"pin"`
	Candidate Candidate `json:"candidate"`
}
