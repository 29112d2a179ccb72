package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"civictrack/backend/internal/lifecycle"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/notify"
	"civictrack/backend/internal/storage"
	"civictrack/backend/internal/sweep"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "register-officer":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin register-officer <email> <level 2|3>")
			os.Exit(1)
		}
		email := os.Args[2]
		level, err := strconv.Atoi(os.Args[3])
		if err != nil || (level != 2 && level != 3) {
			fmt.Println("Invalid level. Must be 2 or 3.")
			os.Exit(1)
		}
		if err := registerOfficer(ctx, store, email, level); err != nil {
			log.Fatalf("Error registering officer: %v", err)
		}
		fmt.Printf("Officer %s registered for level %d.\n", email, level)
	case "sweep-once":
		svc := lifecycle.NewService(store, notify.NewAdapter(nil, nil, store), nil)
		sweeper := sweep.NewSweeper(store, svc)
		sweeper.Tick(ctx)
		fmt.Println("Sweep tick completed.")
	case "list-overdue":
		if err := listOverdue(ctx, store); err != nil {
			log.Fatalf("Error listing overdue complaints: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func registerOfficer(ctx context.Context, s storage.Storage, email string, level int) error {
	role := models.RoleL2Officer
	if level == 3 {
		role = models.RoleL3Officer
	}
	return s.CreateUser(ctx, &models.User{
		Email: email,
		Role:  role,
	})
}

func listOverdue(ctx context.Context, s storage.Storage) error {
	now := time.Now()
	complaints, err := s.FindComplaints(ctx, storage.Filter{
		DeadlineBefore: &now,
		ExcludeStatuses: []models.Status{
			models.StatusResolved, models.StatusVerified,
			models.StatusRejected, models.StatusSocialMedia,
		},
	})
	if err != nil {
		return err
	}
	for _, c := range complaints {
		overdue := now.Sub(c.Deadline).Round(time.Minute)
		fmt.Printf("%s  L%d  %-12s  overdue %s  %s\n", c.ID, c.EscalationLevel, c.Status, overdue, c.Title)
	}
	fmt.Printf("%d overdue complaint(s).\n", len(complaints))
	return nil
}
