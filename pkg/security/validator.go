package security

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
)

// ErrInvalidSearchQuery is returned when a search term is rejected
var ErrInvalidSearchQuery = errors.New("search query contains invalid characters")

// dangerousPatterns contains regex patterns that could indicate SQL injection attempts
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(union|select|insert|drop|alter|exec|execute|truncate)\b`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\b(or|and)\s+['"].*['"]\s*=\s*['"].*['"]`),
	regexp.MustCompile(`(--|/\*|\*/|;)`),
	regexp.MustCompile(`(?i)\b(waitfor|benchmark|pg_sleep)\b`),
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery validates a free-text search term used for product and
// customer name lookups. The term is trimmed; an empty term is allowed.
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if len([]rune(query)) > MaxSearchQueryLength {
		return "", errors.New("search query too long")
	}

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(query) {
			return "", ErrInvalidSearchQuery
		}
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", ErrInvalidSearchQuery
		}
	}

	return query, nil
}

// isValidSearchChar checks if a character is safe for search queries
func isValidSearchChar(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		strings.ContainsRune(" -_.@+'&", char)
}

// SanitizeSearchString escapes LIKE wildcards so the term matches literally
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	query = strings.ReplaceAll(query, "_", `\_`)

	return query
}

// ContainsPattern returns a lower-cased "%term%" pattern for case-insensitive LIKE
func ContainsPattern(query string) string {
	return "%" + strings.ToLower(SanitizeSearchString(query)) + "%"
}

// DecodeIfEscaped percent-decodes a path value that arrived still encoded
// (for example an email containing "%40"). Values without '%' and values
// with malformed escapes are returned as is.
func DecodeIfEscaped(value string) string {
	if !strings.Contains(value, "%") {
		return value
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
