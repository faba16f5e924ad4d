package config

import (
	"os"
	"strings"
)

// DeploymentMode represents the deployment context the analyzer is running
// under. It only affects how strictly credential resolution behaves (A4) —
// it has no bearing on the analysis algorithm itself.
type DeploymentMode string

const (
	// ModeDevelopment is a local git checkout (.env / go.mod present).
	// Plaintext DSN passwords and localhost endpoints are acceptable.
	ModeDevelopment DeploymentMode = "development"

	// ModePackaged is a distributed binary run outside of a checkout.
	// Credentials should come from env vars, the OS keychain, or a config
	// file rather than a bundled .env.
	ModePackaged DeploymentMode = "packaged"

	// ModeCI is a CI/CD pipeline run. All credentials must come from
	// environment variables; nothing interactive is allowed.
	ModeCI DeploymentMode = "ci"
)

// DetectMode determines the deployment context based on environment.
func DetectMode() DeploymentMode {
	if mode := os.Getenv("ARCHGRAPH_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "development", "dev":
			return ModeDevelopment
		case "packaged", "pkg":
			return ModePackaged
		case "ci", "cicd":
			return ModeCI
		}
	}

	if isCI() {
		return ModeCI
	}

	if _, err := os.Stat(".env"); err == nil {
		return ModeDevelopment
	}
	if _, err := os.Stat("go.mod"); err == nil {
		return ModeDevelopment
	}

	return ModePackaged
}

func isCI() bool {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// IsDevelopment returns true if running in development mode.
func IsDevelopment() bool { return DetectMode() == ModeDevelopment }

// IsCI returns true if running in a CI/CD pipeline.
func IsCI() bool { return DetectMode() == ModeCI }

// String returns the string representation of the mode.
func (m DeploymentMode) String() string { return string(m) }

// AllowsInteractivePrompts returns true if interactive credential prompts
// are allowed under this mode.
func (m DeploymentMode) AllowsInteractivePrompts() bool {
	return m == ModePackaged
}

// RequiresSecureCredentials returns true if plaintext/localhost defaults
// must be rejected under this mode.
func (m DeploymentMode) RequiresSecureCredentials() bool {
	return m == ModePackaged || m == ModeCI
}
