package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for an analysis run.
// Grounded on the teacher's viper+godotenv config layer, re-keyed from
// CodeRisk's GitHub/Risk/Budget sections to the analyzer's own concerns.
type Config struct {
	// Project root being analyzed.
	ProjectPath string `yaml:"project_path"`

	// Sub-directory (relative to ProjectPath) used for archive extraction
	// and per-node exports. Default ".analysis".
	AnalysisDir string `yaml:"analysis_dir"`

	// Name of a project record file, relative to ProjectPath. Project
	// load/save does not read it: the record is always written as
	// project.DefaultMetadataName ("projectAnalysis.json").
	ProjectFileName string `yaml:"project_file_name"`

	Storage   StorageConfig   `yaml:"storage"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Execution ExecutionConfig `yaml:"execution"`
	Cache     CacheConfig     `yaml:"cache"`
	Neo4j     Neo4jConfig     `yaml:"neo4j"`
}

// StorageConfig selects and parametrizes the persistence adapter (C4).
type StorageConfig struct {
	Type        string `yaml:"type"` // "postgres", "sqlite"
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// DiscoveryConfig parametrizes file discovery and archive extraction (C7).
type DiscoveryConfig struct {
	IgnorePatternFile string   `yaml:"ignore_pattern_file"`
	ExtraIgnores      []string `yaml:"extra_ignores"`
	ArchiveExtensions []string `yaml:"archive_extensions"`
}

// ExecutionConfig parametrizes the multi-pass executor (C9).
type ExecutionConfig struct {
	MaxPasses        int      `yaml:"max_passes"`
	RequestedFilters []string `yaml:"package_filters"`
}

// CacheConfig parametrizes the optional archive-digest cache (A5).
type CacheConfig struct {
	SharedCacheURL string `yaml:"shared_cache_url"` // redis://... when set
	LocalDigestDB  string `yaml:"local_digest_db"`  // bbolt file path fallback
}

// Neo4jConfig parametrizes the optional snapshot exporter backend.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Enabled  bool   `yaml:"enabled"`
}

// Default returns default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		AnalysisDir:     ".analysis",
		ProjectFileName: "project-analysis.json",
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".archgraph", "local.db"),
		},
		Discovery: DiscoveryConfig{
			ArchiveExtensions: []string{"jar", "war", "ear", "zip"},
		},
		Execution: ExecutionConfig{
			MaxPasses: 5,
		},
		Cache: CacheConfig{
			LocalDigestDB: filepath.Join(homeDir, ".archgraph", "digests.db"),
		},
		Neo4j: Neo4jConfig{
			Database: "neo4j",
		},
	}
}

// Load loads configuration from a YAML file and environment variables,
// with environment variables taking precedence over the file. .env.local
// and .env are read first and only set variables not already present in
// the process environment, so a real environment variable wins over both.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("analysis_dir", cfg.AnalysisDir)
	v.SetDefault("project_file_name", cfg.ProjectFileName)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("discovery", cfg.Discovery)
	v.SetDefault("execution", cfg.Execution)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("neo4j", cfg.Neo4j)

	v.SetEnvPrefix("ARCHGRAPH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("archgraph")
		v.AddConfigPath(".")
		v.AddConfigPath(".analysis")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".archgraph"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadEnvFiles() {
	envFiles := []string{".env.local", ".env"}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

// applyEnvOverrides applies environment variable overrides, then, when a
// Postgres DSN is set, resolves its password (A4 — credential resolution;
// see resolveStoragePassword).
func applyEnvOverrides(cfg *Config) {
	if projectPath := os.Getenv("ARCHGRAPH_PROJECT_PATH"); projectPath != "" {
		cfg.ProjectPath = projectPath
	}
	if storageType := os.Getenv("ARCHGRAPH_STORAGE_TYPE"); storageType != "" {
		cfg.Storage.Type = storageType
	}
	if dsn := os.Getenv("ARCHGRAPH_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if path := os.Getenv("ARCHGRAPH_SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = expandPath(path)
	}
	if maxPasses := os.Getenv("ARCHGRAPH_MAX_PASSES"); maxPasses != "" {
		if n, err := strconv.Atoi(maxPasses); err == nil {
			cfg.Execution.MaxPasses = n
		}
	}
	if url := os.Getenv("ARCHGRAPH_SHARED_CACHE_URL"); url != "" {
		cfg.Cache.SharedCacheURL = url
	}
	if uri := os.Getenv("ARCHGRAPH_NEO4J_URI"); uri != "" {
		cfg.Neo4j.URI = uri
		cfg.Neo4j.Enabled = true
	}

	if cfg.Storage.PostgresDSN != "" {
		resolveStoragePassword(cfg)
	}
}

// resolveStoragePassword sets the DSN password component from
// ARCHGRAPH_POSTGRES_PASSWORD when that is set, otherwise from the OS
// keychain, and leaves the DSN as-is when neither supplies one: env var >
// keychain > the DSN's own password.
func resolveStoragePassword(cfg *Config) {
	if password := os.Getenv("ARCHGRAPH_POSTGRES_PASSWORD"); password != "" {
		cfg.Storage.PostgresDSN = injectPassword(cfg.Storage.PostgresDSN, password)
		return
	}
	km := NewKeyringManager()
	if !km.IsAvailable() {
		return
	}
	password, err := km.GetPersistencePassword()
	if err != nil || password == "" {
		return
	}
	cfg.Storage.PostgresDSN = injectPassword(cfg.Storage.PostgresDSN, password)
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("project_path", c.ProjectPath)
	v.Set("analysis_dir", c.AnalysisDir)
	v.Set("project_file_name", c.ProjectFileName)
	v.Set("storage", c.Storage)
	v.Set("discovery", c.Discovery)
	v.Set("execution", c.Execution)
	v.Set("cache", c.Cache)
	v.Set("neo4j", c.Neo4j)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
