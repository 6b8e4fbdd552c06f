package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type WS struct {
	AllowedOrigins []string
}

type Catalog struct {
	Timeout              time.Duration
	PageLimit            int
	AllowPrivateNetworks bool
}

type RateLimit struct {
	PerMinute int
	Burst     int
}

type Config struct {
	HTTP      HTTPServer
	WS        WS
	Catalog   Catalog
	RateLimit RateLimit
	LogLevel  string
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:      *newHTTP(),
		WS:        *newWS(),
		Catalog:   *newCatalog(),
		RateLimit: *newRateLimit(),
		LogLevel:  getenv("LOG_LEVEL", "info"),
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Host: getenv("HTTP_HOST", "0.0.0.0"),
		Port: getenv("HTTP_PORT", "3001"),
	}
}

func newWS() *WS {
	origins := getenv("WS_ALLOWED_ORIGINS", "*")
	return &WS{
		AllowedOrigins: strings.Split(origins, ","),
	}
}

func newCatalog() *Catalog {
	return &Catalog{
		Timeout:              getenvDuration("CATALOG_TIMEOUT", 15*time.Second),
		PageLimit:            getenvInt("CATALOG_PAGE_LIMIT", 100),
		AllowPrivateNetworks: getenvBool("CATALOG_ALLOW_PRIVATE", false),
	}
}

func newRateLimit() *RateLimit {
	return &RateLimit{
		PerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 120),
		Burst:     getenvInt("RATE_LIMIT_BURST", 60),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Printf("%s %s undefined. Using default value %s", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}

func getenvInt(key string, defaultValue int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return val
}

func getenvBool(key string, defaultValue bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	val, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return val
}
