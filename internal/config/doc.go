// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv) when present, then plain environment
// variables. Validates required fields at startup.
package config
