package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	AppEnv        string
	Title         string
	Subtitle      string
	ContactURL    string
	AdminPassword string
	JWTSecret     string
	LinksJSON     string
	FriendsJSON   string
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "file:data/portal.json"),
		AppEnv:        getEnv("APP_ENV", "local"),
		Title:         getEnv("TITLE", "NooMiNav"),
		Subtitle:      getEnv("SUBTITLE", ""),
		ContactURL:    getEnv("CONTACT_URL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		LinksJSON:     getEnv("LINKS", "[]"),
		FriendsJSON:   getEnv("FRIENDS", "[]"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
