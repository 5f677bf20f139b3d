// Package integrity fingerprints the Given/When/Then assertion lines of a
// test-spec artifact so that later edits to assertions are detectable. Only
// assertion lines participate: renaming a scenario or rewording prose does
// not change the hash, reordering assertions does not either.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// Status of an integrity check.
const (
	StatusValid    = "valid"
	StatusTampered = "tampered"
	StatusMissing  = "missing"
)

// Check is the result of comparing the current assertion hash against the
// stored one.
type Check struct {
	Status      string  `json:"status"`
	CurrentHash *string `json:"currentHash"`
	StoredHash  *string `json:"storedHash"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

var assertionPrefixes = []string{"**Given**:", "**When**:", "**Then**:"}

// AssertionHash computes the SHA-256 hex digest of the document's assertion
// lines, each whitespace-normalized, sorted, and joined with newlines.
// Returns "" when the document has no assertion lines.
func AssertionHash(content string) string {
	var assertions []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range assertionPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				assertions = append(assertions, whitespaceRun.ReplaceAllString(trimmed, " "))
				break
			}
		}
	}
	if len(assertions) == 0 {
		return ""
	}
	sort.Strings(assertions)
	sum := sha256.Sum256([]byte(strings.Join(assertions, "\n")))
	return hex.EncodeToString(sum[:])
}

// Compare classifies the current hash against the stored one. Either hash
// being absent means the check cannot run and reports missing.
func Compare(currentHash, storedHash string) Check {
	if currentHash == "" || storedHash == "" {
		return Check{
			Status:      StatusMissing,
			CurrentHash: optional(currentHash),
			StoredHash:  optional(storedHash),
		}
	}
	status := StatusTampered
	if currentHash == storedHash {
		status = StatusValid
	}
	return Check{
		Status:      status,
		CurrentHash: &currentHash,
		StoredHash:  &storedHash,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
