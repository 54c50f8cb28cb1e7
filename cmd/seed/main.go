package main

import (
	"fmt"
	"log"

	"roomly/internal/hotels"
	"roomly/internal/rooms"
	"roomly/internal/shared/config"
	"roomly/internal/shared/database"
	"roomly/internal/users"

	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Roomly Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"rooms",
		"hotels",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	hotelIDs, err := s.SeedHotels()
	if err != nil {
		return fmt.Errorf("failed to seed hotels: %w", err)
	}

	if err := s.SeedRooms(hotelIDs); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	return nil
}

// SeedUsers creates one admin and one regular account for local testing
func (s *Seeder) SeedUsers() error {
	accounts := []struct {
		firstName string
		lastName  string
		email     string
		password  string
		role      users.Role
	}{
		{"Admin", "User", "admin@roomly.dev", "admin123", users.RoleAdmin},
		{"Test", "Guest", "guest@roomly.dev", "guest123", users.RoleUser},
	}

	for _, account := range accounts {
		hashed, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := users.User{
			FirstName: account.firstName,
			LastName:  account.lastName,
			Email:     account.email,
			Password:  string(hashed),
			Role:      account.role,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return err
		}
		fmt.Printf("  Created user: %s (%s)\n", account.email, account.role)
	}

	return nil
}

// SeedHotels creates the demo hotels
func (s *Seeder) SeedHotels() (map[string]uint, error) {
	seedHotels := []hotels.Hotel{
		{Name: "Aurora Hotel", Address: "Keizersgracht 12, Amsterdam"},
		{Name: "Sea Breeze Resort", Address: "Boulevard 4, Rotterdam"},
	}

	ids := make(map[string]uint, len(seedHotels))
	for i := range seedHotels {
		if err := s.db.PostgreSQL.Create(&seedHotels[i]).Error; err != nil {
			return nil, err
		}
		ids[seedHotels[i].Name] = seedHotels[i].ID
		fmt.Printf("  Created hotel: %s\n", seedHotels[i].Name)
	}

	return ids, nil
}

// SeedRooms creates the demo rooms, all unlocked and never booked
func (s *Seeder) SeedRooms(hotelIDs map[string]uint) error {
	seedRooms := []rooms.Room{
		{HotelID: hotelIDs["Aurora Hotel"], Number: "101", Available: true},
		{HotelID: hotelIDs["Aurora Hotel"], Number: "102", Available: true},
		{HotelID: hotelIDs["Sea Breeze Resort"], Number: "201", Available: true},
		{HotelID: hotelIDs["Sea Breeze Resort"], Number: "202", Available: true},
	}

	for i := range seedRooms {
		if err := s.db.PostgreSQL.Create(&seedRooms[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  Created room: %s (hotel %d)\n", seedRooms[i].Number, seedRooms[i].HotelID)
	}

	return nil
}
