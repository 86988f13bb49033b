package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"billetterie/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const DefaultCartTTL = 168 * time.Hour

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

// CartTTL is how long a cart stays usable after creation. Expired carts
// are refused at checkout and removed by the admin purge action.
func CartTTL() time.Duration {
	hours := os.Getenv("CART_TTL_HOURS")
	if hours == "" {
		return DefaultCartTTL
	}
	n, err := strconv.Atoi(hours)
	if err != nil || n <= 0 {
		return DefaultCartTTL
	}
	return time.Duration(n) * time.Hour
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := MigrateModels(db); err != nil {
		return nil, err
	}

	SeedRoles(db)

	return db, nil
}

func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Customer{},
		&models.Theme{},
		&models.Event{},
		&models.EventImage{},
		&models.Cart{},
		&models.CartTicket{},
		&models.Order{},
		&models.OrderTicket{},
	)
}

func SeedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleAdmin},
		{Name: models.RoleCustomer},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}
