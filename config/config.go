// Package config reads process configuration from environment variables.
// A .env file in the working directory is honored when present.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func init() {
	// Missing .env is not an error, real env vars win either way.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SIDAC_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("SIDAC_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("SIDAC_LISTEN")
}

func GetPort() int {
	port := os.Getenv("SIDAC_PORT")
	if port == "" {
		return 8080
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 8080
	}
	return n
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SIDAC_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/sidac-ui"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("SIDAC_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetSessionSecret returns the cookie signing secret. Empty means the caller
// generates an ephemeral one at startup.
func GetSessionSecret() string {
	return os.Getenv("SIDAC_SESSION_SECRET")
}

// GetSessionMaxAge returns the "remember me" cookie lifetime in seconds.
func GetSessionMaxAge() int {
	maxAge := os.Getenv("SIDAC_SESSION_MAX_AGE")
	if maxAge == "" {
		return 30 * 24 * 60 * 60
	}
	n, err := strconv.Atoi(maxAge)
	if err != nil || n <= 0 {
		return 30 * 24 * 60 * 60
	}
	return n
}

// GetWebDomain returns the expected Host header, empty to accept any host.
func GetWebDomain() string {
	return os.Getenv("SIDAC_WEB_DOMAIN")
}
