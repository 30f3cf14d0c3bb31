package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB         DBConfig
	Mongo      MongoConfig
	Store      StoreConfig
	Server     ServerConfig
	LINE       LINEConfig
	Restaurant RestaurantConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type MongoConfig struct {
	URI      string
	Database string
}

type StoreConfig struct {
	Driver       string // "postgres", "mongo" or "memory"
	MenuCacheTTL time.Duration
}

type ServerConfig struct {
	Port         int
	AllowOrigins []string
}

type LINEConfig struct {
	ChannelToken  string
	ChannelSecret string // webhook signature check is skipped when empty
}

type RestaurantConfig struct {
	Name    string
	Phone   string
	Address string
	Hours   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	httpPort, _ := strconv.Atoi(getEnv("PORT", "8080"))
	menuTTL, _ := strconv.Atoi(getEnv("MENU_CACHE_TTL_SECONDS", "300"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "snackshop"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "snackshop"),
		},
		Store: StoreConfig{
			Driver:       getEnv("STORE_DRIVER", "postgres"),
			MenuCacheTTL: time.Duration(menuTTL) * time.Second,
		},
		Server: ServerConfig{
			Port:         httpPort,
			AllowOrigins: splitList(getEnv("ALLOW_ORIGINS", "*")),
		},
		LINE: LINEConfig{
			ChannelToken:  getEnv("LINE_CHANNEL_TOKEN", ""),
			ChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),
		},
		Restaurant: RestaurantConfig{
			Name:    getEnv("RESTAURANT_NAME", "台灣小吃店"),
			Phone:   getEnv("RESTAURANT_PHONE", "02-1234-5678"),
			Address: getEnv("RESTAURANT_ADDRESS", "臺北市信義區松壽路123號"),
			Hours:   getEnv("RESTAURANT_HOURS", "10:00 - 22:00"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
