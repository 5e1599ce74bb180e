package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Server struct {
	ListenAddr string
}

type Storage struct {
	// DataDir holds the Pebble event store. Empty disables persistence
	// (events go to a no-op sink).
	DataDir string
	LogFile string
}

type Engine struct {
	// RecentFills is the per-symbol capacity of the in-memory fill ring
	// that backs Match queries.
	RecentFills int
}

type Config struct {
	Server  Server
	Storage Storage
	Engine  Engine
}

func Default() Config {
	return Config{
		Server: Server{
			ListenAddr: ":3000",
		},
		Storage: Storage{
			DataDir: "data/events",
			LogFile: "data/exchange.log",
		},
		Engine: Engine{
			RecentFills: 1024,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.Storage.LogFile = logFile
	}
	if fills := os.Getenv("RECENT_FILLS"); fills != "" {
		if n, err := strconv.Atoi(fills); err == nil && n > 0 {
			cfg.Engine.RecentFills = n
		}
	}

	return cfg
}
