package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/database"
	"github.com/aptivohq/aptivo-backend/internal/logger"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	staffRepo := repository.NewStaffRepository(pool)
	authService := service.NewAuthService(cfg, nil, nil)
	staffService := service.NewStaffService(pool, staffRepo, authService)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Staff User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// Role
	fmt.Print("Enter Role (admin/examiner/proctor, default admin): ")
	role, _ := reader.ReadString('\n')
	role = strings.TrimSpace(role)
	if role == "" {
		role = string(model.StaffRoleAdmin)
	}
	switch model.StaffRole(role) {
	case model.StaffRoleAdmin, model.StaffRoleExaminer, model.StaffRoleProctor:
	default:
		fmt.Println("Error: Role must be admin, examiner or proctor")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := staffService.Create(ctx, &model.CreateStaffRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff user")
	}

	fmt.Printf("Staff user created: id=%d email=%s role=%s\n", user.ID, user.Email, user.Role)
}
