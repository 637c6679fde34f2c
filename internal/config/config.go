package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/plantops/greenhouse-data-sim/internal/sim"
)

type AppConfig struct {
	// Plants to simulate.
	Plants []string

	// GenerateInterval controls how often stats are regenerated per plant.
	GenerateInterval time.Duration

	// BlockSize is the number of raw samples reduced into one window.
	BlockSize int

	// Seed is the base seed for the simulation random streams.
	Seed int64

	// In-memory store retention.
	StoreMaxHistory int           // max number of runs per plant (0 = unlimited)
	StoreMaxAge     time.Duration // max age of runs (0 = unlimited)

	// StreamDelay is the default pacing between streamed rows.
	StreamDelay time.Duration

	// Optional sinks; empty URL disables the sink.
	MQTTBrokerURL string
	CollectorURL  string

	Port string

	// Simulation parameters.
	Sim sim.Params
}

// Load reads configuration from environment with sensible defaults.
// Invalid simulation parameters are rejected here, before anything runs.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Plants = splitList(getenvDefault("PLANTS", "plant_1"))

	intervalStr := getenvDefault("GENERATE_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATE_INTERVAL: %w", err)
	}
	cfg.GenerateInterval = interval

	cfg.BlockSize = getenvInt("BLOCK_SIZE", 6)
	if cfg.BlockSize < 1 {
		return nil, fmt.Errorf("invalid BLOCK_SIZE: must be >= 1, got %d", cfg.BlockSize)
	}

	cfg.Seed = int64(getenvInt("SIM_SEED", 1))

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96)

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	delayStr := getenvDefault("STREAM_DELAY", "2s")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_DELAY: %w", err)
	}
	cfg.StreamDelay = delay

	cfg.MQTTBrokerURL = os.Getenv("MQTT_BROKER_URL")
	cfg.CollectorURL = os.Getenv("COLLECTOR_URL")
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.Sim = loadSimParams()
	if err := cfg.Sim.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSimParams starts from the default scenario and applies any SIM_*
// overrides. Validation happens in Load, after all overrides are applied.
func loadSimParams() sim.Params {
	p := sim.DefaultParams()

	p.TotalTimeMinutes = getenvFloat("SIM_TOTAL_TIME_MINUTES", p.TotalTimeMinutes)
	p.TimeStep = getenvFloat("SIM_TIME_STEP", p.TimeStep)
	p.ThetaInit = getenvFloat("SIM_THETA_INIT", p.ThetaInit)
	p.ThetaPWP = getenvFloat("SIM_THETA_PWP", p.ThetaPWP)
	p.KSoil = getenvFloat("SIM_K_SOIL", p.KSoil)
	p.KCrop = getenvFloat("SIM_K_CROP", p.KCrop)
	p.LambdaBase = getenvFloat("SIM_LAMBDA_BASE", p.LambdaBase)
	p.CTemp = getenvFloat("SIM_C_TEMP", p.CTemp)
	p.CLight = getenvFloat("SIM_C_LIGHT", p.CLight)
	p.LPeak = getenvFloat("SIM_L_PEAK", p.LPeak)
	p.TAvg = getenvFloat("SIM_T_AVG", p.TAvg)
	p.TAmplitude = getenvFloat("SIM_T_AMPLITUDE", p.TAmplitude)
	p.TLag = getenvFloat("SIM_T_LAG", p.TLag)
	p.WateringThreshold = getenvFloat("SIM_WATERING_THRESHOLD", p.WateringThreshold)

	return p
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
