package main

import (
	"log"
	"os"
	"time"

	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo account...")

	email := os.Getenv("SEED_USER_EMAIL")
	if email == "" {
		email = "demo@imagestudio.local"
	}
	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		password = "demo1234"
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		color.Yellow("User '%s' already exists, skipping...", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}

	now := time.Now()
	hashStr := string(hash)
	user := model.User{
		Email:           email,
		PasswordHash:    &hashStr,
		FullName:        "Demo User",
		Role:            "user",
		Status:          "active",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error: Failed to create user: %v", err)
	}
	color.Green("Created user: %s", email)

	// Starting credits so the demo account can generate without paying.
	balance := model.CreditBalance{
		UserId:           user.Id,
		CreditsRemaining: 10,
		CreditsTotal:     10,
	}
	if err := db.Create(&balance).Error; err != nil {
		log.Fatalf("Error: Failed to create credit balance: %v", err)
	}
	tx := model.CreditTransaction{
		UserId:      user.Id,
		Amount:      10,
		Type:        "purchase",
		Description: "Crédits de démonstration",
	}
	if err := db.Create(&tx).Error; err != nil {
		log.Printf("Warn: Failed to record seed credit transaction: %v", err)
	}
	color.Green("Granted 10 demo credits")

	color.Green("✅ Seeding completed!")
}
