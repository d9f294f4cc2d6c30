// Package formats provides format resolution and lookup functionality for the
// config-driven architecture. It handles alias resolution, compiled pattern
// caching, and auto-detection of input formats.
package formats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nowwaveradio/datetime-normalizer/internal/config"
	"github.com/nowwaveradio/datetime-normalizer/internal/pattern"
)

// keyNormalizer folds aliases before lookup so that "Français" and
// "francais" resolve to the same format.
var keyNormalizer = transform.Chain(
	norm.NFD,                           // Decompose accented characters (é → e + ´)
	runes.Remove(runes.In(unicode.Mn)), // Remove combining marks (accents)
	norm.NFC,                           // Recompose remaining characters
)

// Registry handles format alias resolution and lookup operations
type Registry struct {
	config     *config.Config
	aliasMap   map[string]string // Maps aliases and names to format keys
	formatKeys []string          // Ordered list of format keys for iteration

	mu       sync.RWMutex
	compiled map[string]*pattern.Pattern // Cache keyed by pattern string
}

// NewRegistry creates a new format registry from the given configuration
func NewRegistry(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	registry := &Registry{
		config:     cfg,
		aliasMap:   make(map[string]string),
		formatKeys: make([]string, 0, len(cfg.Formats)),
		compiled:   make(map[string]*pattern.Pattern),
	}

	// Build alias mapping and validate for conflicts
	if err := registry.buildAliasMap(); err != nil {
		return nil, fmt.Errorf("building alias map: %w", err)
	}

	return registry, nil
}

// normalizeKey lowercases, trims, and strips diacritics from a lookup key
func normalizeKey(key string) string {
	folded, _, err := transform.String(keyNormalizer, key)
	if err != nil {
		folded = key
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// buildAliasMap constructs the alias-to-formatkey mapping and validates for conflicts
func (r *Registry) buildAliasMap() error {
	conflictCheck := make(map[string][]string) // Track which formats claim each alias

	for formatKey, formatConfig := range r.config.Formats {
		r.formatKeys = append(r.formatKeys, formatKey)

		// Add primary format key (case- and diacritic-insensitive)
		normalizedKey := normalizeKey(formatKey)
		r.aliasMap[normalizedKey] = formatKey
		conflictCheck[normalizedKey] = append(conflictCheck[normalizedKey], formatKey)

		// Add each alias
		for _, alias := range formatConfig.Aliases {
			normalizedAlias := normalizeKey(alias)
			r.aliasMap[normalizedAlias] = formatKey
			conflictCheck[normalizedAlias] = append(conflictCheck[normalizedAlias], formatKey)
		}
	}

	// Check for conflicts (same alias used by multiple formats)
	for alias, formats := range conflictCheck {
		if len(formats) > 1 {
			sort.Strings(formats)
			return fmt.Errorf("alias conflict: '%s' is used by multiple formats: %v", alias, formats)
		}
	}

	// Map iteration order is random; keep the key list stable
	sort.Strings(r.formatKeys)

	return nil
}

// FindFormat resolves a format name or alias to its configuration.
// Returns nil if the format is not found.
func (r *Registry) FindFormat(nameOrAlias string) *config.FormatConfig {
	if strings.TrimSpace(nameOrAlias) == "" {
		return nil
	}

	normalized := normalizeKey(nameOrAlias)

	if formatKey, exists := r.aliasMap[normalized]; exists {
		if formatConfig, found := r.config.Formats[formatKey]; found {
			return &formatConfig
		}
	}

	return nil
}

// FindFormatKey resolves a format name or alias to its primary key.
// Returns empty string if the format is not found.
func (r *Registry) FindFormatKey(nameOrAlias string) string {
	if strings.TrimSpace(nameOrAlias) == "" {
		return ""
	}

	normalized := normalizeKey(nameOrAlias)

	if formatKey, exists := r.aliasMap[normalized]; exists {
		return formatKey
	}

	return ""
}

// PatternFor resolves a format name, alias, or inline pattern string to a
// compiled pattern. Named formats are looked up first; anything unrecognized
// is compiled as an inline pattern. Compilation results are cached.
func (r *Registry) PatternFor(nameOrPattern string) (*pattern.Pattern, error) {
	if strings.TrimSpace(nameOrPattern) == "" {
		return nil, fmt.Errorf("format name or pattern cannot be empty")
	}

	patternStr := nameOrPattern
	if formatConfig := r.FindFormat(nameOrPattern); formatConfig != nil {
		patternStr = formatConfig.Pattern
	}

	r.mu.RLock()
	compiled, cached := r.compiled[patternStr]
	r.mu.RUnlock()
	if cached {
		return compiled, nil
	}

	compiled, err := pattern.Compile(patternStr)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.compiled[patternStr] = compiled
	r.mu.Unlock()

	return compiled, nil
}

// ListFormats returns all format keys in the configuration
func (r *Registry) ListFormats() []string {
	// Return a copy to prevent external modification
	result := make([]string, len(r.formatKeys))
	copy(result, r.formatKeys)
	return result
}

// ListEnabledFormats returns all enabled format keys, optionally sorted by priority
func (r *Registry) ListEnabledFormats(sortByPriority bool) []string {
	var enabled []string

	for _, formatKey := range r.formatKeys {
		if formatConfig, exists := r.config.Formats[formatKey]; exists && formatConfig.Enabled {
			enabled = append(enabled, formatKey)
		}
	}

	if sortByPriority {
		enabled = r.sortByPriority(enabled)
	}

	return enabled
}

// sortByPriority sorts format keys by priority, highest first. Equal
// priorities fall back to key order so detection is deterministic.
func (r *Registry) sortByPriority(formatKeys []string) []string {
	sorted := make([]string, len(formatKeys))
	copy(sorted, formatKeys)

	sort.SliceStable(sorted, func(i, j int) bool {
		pi := r.config.Formats[sorted[i]].Priority
		pj := r.config.Formats[sorted[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return sorted[i] < sorted[j]
	})

	return sorted
}

// GetFormatAliases returns all aliases for a given format key
func (r *Registry) GetFormatAliases(formatKey string) []string {
	formatConfig, exists := r.config.Formats[formatKey]
	if !exists {
		return []string{}
	}

	// Return a copy to prevent external modification
	aliases := make([]string, len(formatConfig.Aliases))
	copy(aliases, formatConfig.Aliases)
	return aliases
}

// ValidateFormats performs validation on all format configurations
func (r *Registry) ValidateFormats() error {
	var errors []string

	for formatKey, formatConfig := range r.config.Formats {
		if strings.TrimSpace(formatConfig.Pattern) == "" {
			errors = append(errors, fmt.Sprintf("format '%s': pattern is required", formatKey))
		} else if _, err := pattern.Compile(formatConfig.Pattern); err != nil {
			errors = append(errors, fmt.Sprintf("format '%s': %v", formatKey, err))
		}

		if formatConfig.Priority < 0 {
			errors = append(errors, fmt.Sprintf("format '%s': priority must be non-negative, got %d", formatKey, formatConfig.Priority))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("format validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
