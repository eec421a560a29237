//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hugh/contractor-connect/internal/auth"
	"github.com/hugh/contractor-connect/internal/database"
	"github.com/hugh/contractor-connect/internal/leads"
	"github.com/hugh/contractor-connect/internal/notifications"
	"github.com/hugh/contractor-connect/internal/notify"
	"github.com/hugh/contractor-connect/pkg/config"
	"github.com/hugh/contractor-connect/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx := context.Background()
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("DEMO_EMAIL")
	password := os.Getenv("DEMO_PASSWORD")
	if email == "" {
		email = "demo@example.com"
	}
	if password == "" {
		password = "demo1234"
	}

	user, err := authService.Register(ctx, auth.RegisterInput{
		Name:     "Demo Contractor",
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("Demo user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create demo user: %v", err)
	}

	// Seeding never contacts real providers.
	gateway := notify.NewGateway(nil, nil, logger)
	leadService := leads.NewService(db, notifications.NewService(db, gateway, logger), logger)

	demo := []leads.Input{
		{FullName: "Alex Rivera", Phone: "555-0142", City: "Austin", State: "TX", Stage: "New", EstimatedValue: 4200},
		{FullName: "Brooke Chen", Email: "brooke@example.com", City: "Round Rock", State: "TX", Stage: "Contacted", EstimatedValue: 12500},
		{FullName: "Carlos Diaz", Email: "carlos@example.com", Stage: "Estimate Sent", EstimatedValue: 8800, AppointmentDatetime: "2025-03-14T10:00"},
		{FullName: "Dana Whitfield", Phone: "555-0199", Stage: "Closed Won", EstimatedValue: 15000},
		{FullName: "Eli Novak", Stage: "Closed Lost", EstimatedValue: 3000},
	}

	for _, in := range demo {
		lead, err := leadService.Create(ctx, user.ID, in)
		if err != nil {
			log.Fatalf("failed to create lead %q: %v", in.FullName, err)
		}
		if _, err := leadService.AddNote(ctx, user.ID, lead.ID, "Imported from seed data"); err != nil {
			log.Fatalf("failed to add note: %v", err)
		}
	}

	// Walk one lead into Booked so the notification log has an entry.
	booked, err := leadService.Create(ctx, user.ID, leads.Input{
		FullName:            "Fran Okafor",
		Email:               "fran@example.com",
		EstimatedValue:      6400,
		AppointmentDatetime: "2025-03-10T08:30",
	})
	if err != nil {
		log.Fatalf("failed to create lead: %v", err)
	}
	stage := "Booked"
	if _, err := leadService.Update(ctx, user.ID, booked.ID, leads.Patch{Stage: &stage}); err != nil {
		log.Fatalf("failed to book lead: %v", err)
	}

	fmt.Printf("Demo user created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Leads: %d\n", len(demo)+1)
}
