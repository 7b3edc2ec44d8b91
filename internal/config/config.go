package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	MediaDir       string
	LogFile        string
	WhatsAppHost   string
	WhatsAppNumber string
	StoreName      string
}

func Load() Config {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "elpunto.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./elpunto.log"
	}
	waHost := os.Getenv("WHATSAPP_HOST")
	if waHost == "" {
		waHost = "wa.me"
	}
	number := os.Getenv("WHATSAPP_NUMBER")
	if number == "" {
		// Without a destination number every checkout link is broken,
		// so refuse to start.
		log.Fatal("[config] WHATSAPP_NUMBER is required (international format, e.g. 573233353753)")
	}
	storeName := os.Getenv("STORE_NAME")
	if storeName == "" {
		storeName = "El Punto del Sabor"
	}

	cfg := Config{
		Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile,
		WhatsAppHost: waHost, WhatsAppNumber: number, StoreName: storeName,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s WHATSAPP=%s/%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.WhatsAppHost, cfg.WhatsAppNumber)
	return cfg
}
