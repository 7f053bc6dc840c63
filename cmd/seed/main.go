package main

import (
	"crypto/sha1"
	"encoding/hex"
	"log"
	"os"

	"tender-backend/internal/app/ds"
	"tender-backend/internal/app/dsn"
	"tender-backend/internal/app/role"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Утилита для заведения служебных аккаунтов. Аккаунты CITY не создаются
// через самостоятельную регистрацию — только здесь, администратором.
func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seedUser(db, ds.User{
		Username:         envOr("SEED_ADMIN_USER", "admin"),
		Password:         hashString(envOr("SEED_ADMIN_PASSWORD", "admin")),
		UserType:         role.City,
		OrganizationName: "Administration",
		IsSuperuser:      true,
	})

	seedUser(db, ds.User{
		Username:         envOr("SEED_CITY_USER", "city"),
		Password:         hashString(envOr("SEED_CITY_PASSWORD", "city")),
		UserType:         role.City,
		OrganizationName: envOr("SEED_CITY_ORG", "City Hall"),
	})

	log.Println("Seeding completed")
}

func seedUser(db *gorm.DB, user ds.User) {
	var count int64
	if err := db.Model(&ds.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		log.Fatalf("Failed to check user %s: %v", user.Username, err)
	}
	if count > 0 {
		log.Printf("User %s already exists, skipping", user.Username)
		return
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user %s: %v", user.Username, err)
	}
	log.Printf("User %s created (type %s)", user.Username, user.UserType)
}

func hashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
