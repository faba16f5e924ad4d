package config

import "strings"

// injectPassword sets or replaces the "password=" component of a libpq-style
// "key=value key=value" DSN. Non-libpq DSNs (URL form) are returned
// unmodified — callers of this config only produce libpq-style DSNs.
func injectPassword(dsn, password string) string {
	if dsn == "" || strings.Contains(dsn, "://") {
		return dsn
	}
	parts := strings.Fields(dsn)
	found := false
	for i, p := range parts {
		if strings.HasPrefix(p, "password=") {
			parts[i] = "password=" + password
			found = true
			break
		}
	}
	if !found {
		parts = append(parts, "password="+password)
	}
	return strings.Join(parts, " ")
}
