package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
)

// ValidationResult holds validation results, grounded on the teacher's
// ValidationResult/AddError/AddWarning shape in internal/config/validator.go.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result.
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result.
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors.
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message.
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}
	for _, warn := range vr.Warnings {
		sb.WriteString(fmt.Sprintf("  ! %s\n", warn))
	}
	return sb.String()
}

// Validate checks the configuration and reports every problem it finds in
// a ValidationResult. Nothing in this module calls it before
// AnalysisEngine.AnalyzeProject: cmd/inventory runs without it.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}
	mode := DetectMode()

	if c.ProjectPath == "" {
		result.AddError("project path is required but not set")
	} else if info, err := os.Stat(c.ProjectPath); err != nil {
		result.AddError("project path %q is not accessible: %v", c.ProjectPath, err)
	} else if !info.IsDir() {
		result.AddError("project path %q is not a directory", c.ProjectPath)
	}

	if c.Execution.MaxPasses <= 0 {
		result.AddError("execution.max_passes must be positive, got %d", c.Execution.MaxPasses)
	}

	if c.Discovery.IgnorePatternFile != "" {
		if _, err := os.Stat(c.Discovery.IgnorePatternFile); err != nil {
			result.AddError("ignore pattern file %q is not accessible: %v", c.Discovery.IgnorePatternFile, err)
		}
	}

	c.validateStorage(result, mode)

	if c.Neo4j.Enabled && c.Neo4j.URI == "" {
		result.AddError("neo4j.uri is required when neo4j.enabled is true")
	}

	return result
}

func (c *Config) validateStorage(result *ValidationResult, mode DeploymentMode) {
	switch c.Storage.Type {
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			result.AddError("storage.postgres_dsn is required when storage.type is \"postgres\"")
			return
		}
		if mode.RequiresSecureCredentials() && strings.Contains(c.Storage.PostgresDSN, "sslmode=disable") {
			result.AddError("storage.postgres_dsn has sslmode=disable, not allowed in %s mode", mode)
		}
		if mode.RequiresSecureCredentials() && strings.Contains(c.Storage.PostgresDSN, "localhost") {
			result.AddError("storage.postgres_dsn targets localhost, not allowed in %s mode", mode)
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			result.AddWarning("storage.sqlite_path is empty, results will not be persisted")
		}
	case "":
		result.AddError("storage.type must be \"postgres\" or \"sqlite\"")
	default:
		result.AddError("unknown storage.type %q, expected \"postgres\" or \"sqlite\"", c.Storage.Type)
	}
}

// ValidateOrError validates the configuration and returns a ConfigError
// wrapping the full validation report when invalid.
func (c *Config) ValidateOrError() error {
	result := c.Validate()
	if result.HasErrors() {
		return apperrors.ConfigError(result.Error())
	}
	return nil
}
