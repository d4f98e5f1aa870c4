package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultServerURL is the meeting directory entrypoint queried when none is configured.
const DefaultServerURL = "https://meetings.recovrr.org/entrypoint.php"

// DefaultFilePrefix is the stem shared by every exported file.
const DefaultFilePrefix = "meetingData"

// Config holds application configuration.
type Config struct {
	// ServerURL is the meeting directory entrypoint used by the fetcher.
	ServerURL string `json:"server_url,omitempty"`

	// OutputDir is the destination directory for exported views.
	// Empty means <base_dir>/exports.
	OutputDir string `json:"output_dir,omitempty"`

	// FilePrefix is the stem for exported file names (e.g. meetingData.simple.csv).
	FilePrefix string `json:"file_prefix,omitempty"`

	// Workbook also writes an .xlsx mirror of the tabular views.
	Workbook bool `json:"workbook,omitempty"`

	// MetricsTextfile, when set, receives a Prometheus textfile snapshot of each run.
	MetricsTextfile string `json:"metrics_textfile,omitempty"`

	// S3Bucket enables publishing exported files to S3. The remaining S3 fields are optional.
	S3Bucket   string `json:"s3_bucket,omitempty"`
	S3Prefix   string `json:"s3_prefix,omitempty"`
	S3Region   string `json:"s3_region,omitempty"`
	S3Endpoint string `json:"s3_endpoint,omitempty"` // MinIO and friends

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DBMaxOpenConns limits the maximum number of open ledger connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle ledger connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  DefaultServerURL,
		FilePrefix: DefaultFilePrefix,
		LogLevel:   "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.meetcorpus.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.meetcorpus) and repo (.meetcorpus) directories.
// Repo config is found by walking upward from startDir to find the nearest .meetcorpus/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .meetcorpus/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".meetcorpus", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ResolveOutputDir returns the configured output directory, falling back to baseDir/exports.
func (c *Config) ResolveOutputDir(baseDir string) string {
	if c.OutputDir != "" {
		return ExpandTilde(c.OutputDir)
	}
	return filepath.Join(baseDir, "exports")
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		ServerURL:       pickString(base.ServerURL, overlay.ServerURL),
		OutputDir:       pickString(base.OutputDir, overlay.OutputDir),
		FilePrefix:      pickString(base.FilePrefix, overlay.FilePrefix),
		MetricsTextfile: pickString(base.MetricsTextfile, overlay.MetricsTextfile),
		S3Bucket:        pickString(base.S3Bucket, overlay.S3Bucket),
		S3Prefix:        pickString(base.S3Prefix, overlay.S3Prefix),
		S3Region:        pickString(base.S3Region, overlay.S3Region),
		S3Endpoint:      pickString(base.S3Endpoint, overlay.S3Endpoint),
		LogLevel:        pickString(base.LogLevel, overlay.LogLevel),
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.Workbook = base.Workbook || overlay.Workbook

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pickString returns overlay when it is non-blank, else base.
func pickString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// ExpandTilde replaces a leading ~/ with the user's home directory.
func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
