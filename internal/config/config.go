// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all arena and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig holds the playfield dimensions shared by the simulation and
// the clients that render it.
type ArenaConfig struct {
	Width  float64 // Arena width in world units
	Height float64 // Arena height in world units
}

// DefaultArena returns the default arena configuration.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:  960,
		Height: 640,
	}
}

// ArenaFromEnv returns arena configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}

	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds tick scheduling settings for the simulation driver.
type SimConfig struct {
	TickInterval time.Duration // Fixed cadence between simulation ticks
	MaxDelta     float64       // Clamp on elapsed seconds per tick (absorbs scheduler stalls)
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickInterval: 30 * time.Millisecond,
		MaxDelta:     0.5,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if ms := getEnvInt("TICK_INTERVAL_MS", 0); ms > 0 {
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}
	if d := getEnvFloat("TICK_MAX_DELTA", 0); d > 0 {
		cfg.MaxDelta = d
	}

	return cfg
}

// =============================================================================
// ROOM LIFECYCLE CONFIGURATION
// =============================================================================

// RoomConfig holds room lifecycle settings.
type RoomConfig struct {
	InactivityTimeout time.Duration // Rooms idle longer than this are reclaimed
}

// DefaultRoom returns the default room configuration.
func DefaultRoom() RoomConfig {
	return RoomConfig{
		InactivityTimeout: 10 * time.Minute,
	}
}

// RoomFromEnv returns room configuration with environment variable overrides.
func RoomFromEnv() RoomConfig {
	cfg := DefaultRoom()

	if s := getEnvInt("ROOM_TIMEOUT_SECONDS", 0); s > 0 {
		cfg.InactivityTimeout = time.Duration(s) * time.Second
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string // Empty disables the match event log
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EventLogPath = path
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena  ArenaConfig
	Sim    SimConfig
	Room   RoomConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:  ArenaFromEnv(),
		Sim:    SimFromEnv(),
		Room:   RoomFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
