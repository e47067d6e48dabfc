package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type User struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	Email             string `gorm:"uniqueIndex;not null"`
	Password          string `gorm:"not null"`
	Role              string `gorm:"type:varchar(16);not null;default:'user'"`
	IsVerified        bool
	VerifiedAt        *time.Time
	VerificationToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func main() {
	// Parse command line flags
	role := flag.String("role", "admin", "User role (admin or user)")
	password := flag.String("password", "dev-secret-123", "Password for the dev user")
	dbPath := flag.String("db", "shop.sqlite", "Path to the sqlite database")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	email := fmt.Sprintf("%s@shop.dev", *role)

	// Check if the user already exists
	var existing User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("Development user already exists for role '%s'!\n", *role)
		fmt.Printf("Email: %s\n", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	user := User{
		Name:       fmt.Sprintf("Development %s", *role),
		Email:      email,
		Password:   string(hash),
		Role:       *role,
		IsVerified: true,
		VerifiedAt: &now,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("✓ Development user created for role '%s'!\n", *role)
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Password: %s\n", *password)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/auth/login \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", email, *password)
}
