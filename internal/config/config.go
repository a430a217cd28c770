// Package config reads the settings shared by the command-line tool and the
// MCP server from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults shared with command-line flags.
const (
	DefaultWorkersValue         = 8
	DefaultRemoteCacheSizeValue = 1024
	DefaultJoinCacheSizeValue   = 1024
	DefaultDraftValue           = "draft7"
	DefaultToolMaxErrorsValue   = 50
)

// Config holds the settings. The variable each field is read from is noted
// next to it.
type Config struct {
	// Validation
	DefaultDraft string // SCHEMACHECK_DEFAULT_DRAFT, "draft7"
	FormatCheck  bool   // SCHEMACHECK_FORMAT_CHECK, false
	Workers      int    // SCHEMACHECK_WORKERS, 8

	// Reference resolution
	HTTPTimeout     time.Duration // SCHEMACHECK_HTTP_TIMEOUT_MS, 10s
	CacheRemote     bool          // SCHEMACHECK_CACHE_REMOTE, true
	RemoteCacheSize int           // SCHEMACHECK_REMOTE_CACHE_SIZE, 1024
	JoinCacheSize   int           // SCHEMACHECK_URLJOIN_CACHE_SIZE, 1024

	// MCP tools
	ToolMaxErrors int // SCHEMACHECK_TOOL_MAX_ERRORS, 50

	// Logging
	LogLevel      string // LOG_LEVEL, "info"
	LogFormat     string // LOG_FORMAT, "text" or "json"
	LogFile       string // LOG_FILE, unset logs to stderr
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, 28
	LogCompress   bool   // LOG_COMPRESS, true
}

// Load reads the process environment.
func Load() *Config {
	return FromEnv(os.Getenv)
}

// FromEnv reads variables through getenv. Unset variables and values that
// do not parse keep their defaults.
func FromEnv(getenv func(string) string) *Config {
	e := env(getenv)
	return &Config{
		DefaultDraft: e.str("SCHEMACHECK_DEFAULT_DRAFT", DefaultDraftValue),
		FormatCheck:  e.flag("SCHEMACHECK_FORMAT_CHECK", false),
		Workers:      e.num("SCHEMACHECK_WORKERS", DefaultWorkersValue),

		HTTPTimeout:     e.millis("SCHEMACHECK_HTTP_TIMEOUT_MS", 10000),
		CacheRemote:     e.flag("SCHEMACHECK_CACHE_REMOTE", true),
		RemoteCacheSize: e.num("SCHEMACHECK_REMOTE_CACHE_SIZE", DefaultRemoteCacheSizeValue),
		JoinCacheSize:   e.num("SCHEMACHECK_URLJOIN_CACHE_SIZE", DefaultJoinCacheSizeValue),

		ToolMaxErrors: e.num("SCHEMACHECK_TOOL_MAX_ERRORS", DefaultToolMaxErrorsValue),

		LogLevel:      e.str("LOG_LEVEL", "info"),
		LogFormat:     e.str("LOG_FORMAT", "text"),
		LogFile:       e.str("LOG_FILE", ""),
		LogMaxSizeMB:  e.num("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: e.num("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: e.num("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   e.flag("LOG_COMPRESS", true),
	}
}

type env func(string) string

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e env) num(key string, def int) int {
	if n, err := strconv.Atoi(e.str(key, "")); err == nil {
		return n
	}
	return def
}

func (e env) flag(key string, def bool) bool {
	switch strings.ToLower(e.str(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func (e env) millis(key string, def int) time.Duration {
	return time.Duration(e.num(key, def)) * time.Millisecond
}
