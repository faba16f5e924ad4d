// Package discovery implements file discovery and archive extraction
// (C7): the ignore filter, the phase 1a/1b/1c walk, the ExtractionManager,
// and the optional shared digest cache consulted before re-extracting an
// archive.
package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// defaultIgnorePatterns cover common VCS, IDE, build-output, and target
// directories, applied even when no ignore-pattern file is configured.
var defaultIgnorePatterns = []string{
	".git/**", ".svn/**", ".hg/**",
	".idea/**", ".vscode/**",
	"target/**", "build/**", "out/**", "dist/**", "node_modules/**",
	"*.class",
	".analysis/**",
}

// IgnoreFilter matches candidate paths against a list of glob-style
// patterns ("*", "**", trailing "/"). Matching is done against the path
// relative to the project root and also against the basename; a hit on
// either excludes the path.
type IgnoreFilter struct {
	patterns []string
}

// NewIgnoreFilter builds a filter from the default patterns plus any
// extra patterns supplied.
func NewIgnoreFilter(extra []string) *IgnoreFilter {
	patterns := make([]string, 0, len(defaultIgnorePatterns)+len(extra))
	patterns = append(patterns, defaultIgnorePatterns...)
	patterns = append(patterns, extra...)
	return &IgnoreFilter{patterns: patterns}
}

// LoadIgnoreFile reads additional glob patterns from path (one per
// line, blank lines and "#"-prefixed comments skipped) and merges them
// with the defaults.
func LoadIgnoreFile(path string, extra []string) (*IgnoreFilter, error) {
	patterns := append([]string{}, extra...)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	return NewIgnoreFilter(patterns), nil
}

// IsIgnored reports whether relativePath (already relative to the
// project root, using forward slashes) should be excluded.
func (f *IgnoreFilter) IsIgnored(relativePath string) bool {
	relativePath = filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)

	for _, pattern := range f.patterns {
		if matchGlob(pattern, relativePath) || matchGlob(pattern, base) {
			return true
		}
	}
	return false
}

// matchGlob supports "*" (any run within a path segment), "**" (any run
// across segments, including none), and a trailing "/" meaning "this
// directory and everything under it".
func matchGlob(pattern, path string) bool {
	pattern = strings.TrimSuffix(pattern, "/")
	if strings.Contains(pattern, "**") {
		return matchDoubleStar(pattern, path)
	}
	ok, err := filepath.Match(pattern, path)
	return err == nil && ok
}

// matchDoubleStar matches a pattern containing one or more "**"
// wildcards: the segments between "**" occurrences must appear in the
// path in order; the first segment must prefix-match (if non-empty) and
// the last must suffix-match (if non-empty), each on a segment boundary
// when the pattern puts a "/" between it and the "**".
func matchDoubleStar(pattern, path string) bool {
	raw := strings.Split(pattern, "**")
	parts := make([]string, len(raw))
	for i := range raw {
		parts[i] = strings.Trim(raw[i], "/")
	}

	cursor := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		switch i {
		case 0:
			if !strings.HasPrefix(path, part) {
				return false
			}
			if strings.HasSuffix(raw[i], "/") && len(path) > len(part) && path[len(part)] != '/' {
				return false
			}
			cursor = len(part)
		case len(parts) - 1:
			rest := path[cursor:]
			if !strings.HasSuffix(rest, part) {
				return false
			}
			if strings.HasPrefix(raw[i], "/") && len(rest) > len(part) && rest[len(rest)-len(part)-1] != '/' {
				return false
			}
		default:
			pos := strings.Index(path[cursor:], part)
			if pos < 0 {
				return false
			}
			cursor += pos + len(part)
		}
	}
	return true
}
