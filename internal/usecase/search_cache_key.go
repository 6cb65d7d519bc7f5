package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const (
	CoursesListPrefix       = "courses:list:"
	OpportunitiesListPrefix = "opportunities:list:"
)

func NormalizeSearchValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CacheKey hashes the JSON form of params under prefix, so equal filters share an entry.
func CacheKey(prefix string, params any) string {
	b, _ := json.Marshal(params)
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:])
}

// CachePattern matches every key written under prefix.
func CachePattern(prefix string) string {
	return prefix + "*"
}
