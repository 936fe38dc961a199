package model

import "time"

// StaffRole enumerates staff authorization levels. Role management itself is
// out of scope; a single role column is enough to gate routes.
type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleExaminer StaffRole = "examiner"
	StaffRoleProctor  StaffRole = "proctor"
)

// StaffUser is an authenticated back-office user.
type StaffUser struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// StaffLoginRequest is the staff login payload.
type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateStaffRequest is the payload for creating a staff user.
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin examiner proctor"`
}
