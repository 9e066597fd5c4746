// Creates or updates the portal tables.
// cmd/migrate/main.go
package main

import (
	"log"

	"cv-portal-api/config"
	"cv-portal-api/models"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	err := config.DB.AutoMigrate(
		&models.Submission{},
		&models.Reviewer{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migration completed!")
}
