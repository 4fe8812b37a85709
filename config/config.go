package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Telegram TelegramConfig
	WhatsApp WhatsAppConfig
	Delivery DeliveryConfig
	Session  SessionConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

type TelegramConfig struct {
	Token       string // bot token for owner order notifications; empty disables Telegram relay
	OwnerChatID int64
}

type WhatsAppConfig struct {
	Phone string // owner number in international format, digits only
}

// DeliveryConfig is the surcharge/discount pair applied on top of the cart
// subtotal. The defaults cancel each other out (free delivery promo).
type DeliveryConfig struct {
	Surcharge int64
	Discount  int64
}

type SessionConfig struct {
	CartTTL time.Duration // idle time before an abandoned cart is dropped
	AuthTTL time.Duration // staff session lifetime
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	ownerChat, _ := strconv.ParseInt(getEnv("TELEGRAM_OWNER_CHAT_ID", "0"), 10, 64)
	surcharge, _ := strconv.ParseInt(getEnv("DELIVERY_SURCHARGE", "20"), 10, 64)
	discount, _ := strconv.ParseInt(getEnv("DELIVERY_DISCOUNT", "20"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "cafe_jampot"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			OwnerChatID: ownerChat,
		},
		WhatsApp: WhatsAppConfig{
			Phone: getEnv("WHATSAPP_PHONE", "918789512909"),
		},
		Delivery: DeliveryConfig{
			Surcharge: surcharge,
			Discount:  discount,
		},
		Session: SessionConfig{
			CartTTL: getDuration("CART_TTL", 4*time.Hour),
			AuthTTL: getDuration("AUTH_SESSION_TTL", 7*24*time.Hour),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
