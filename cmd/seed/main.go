package main

import (
	"log"
	"os"

	"team-knowledge-be/internal/entity"
	"team-knowledge-be/internal/model"
	"team-knowledge-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds an admin and a couple of demo accounts so the API is usable right
// after migration. Idempotent: existing emails are skipped.
func main() {
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

	color.Cyan("Seeding users...")

	users := []struct {
		Name     string
		Email    string
		Password string
		Role     string
	}{
		{Name: "Admin", Email: "admin@team.local", Password: "admin12345", Role: entity.RoleAdmin},
		{Name: "Alice", Email: "alice@team.local", Password: "alice12345", Role: entity.RoleUser},
		{Name: "Bob", Email: "bob@team.local", Password: "bob1234567", Role: entity.RoleUser},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			color.Yellow("User '%s' already exists, skipping...", u.Email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			color.Red("Error hashing password for '%s': %v", u.Email, err)
			continue
		}

		row := model.User{
			Id:       uuid.New(),
			Name:     u.Name,
			Email:    u.Email,
			Password: string(hash),
			Role:     u.Role,
		}
		if err := db.Create(&row).Error; err != nil {
			color.Red("Error creating user '%s': %v", u.Email, err)
			continue
		}
		color.Green("Created user: %s (%s)", u.Name, u.Role)
	}

	color.Cyan("Seeding completed.")
}
