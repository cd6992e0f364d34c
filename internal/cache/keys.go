package cache

import (
	"fmt"
	"strings"
)

const keyPrefix = "hirebot"

// QuestionTextsKey is the cache key for the dedup context (existing question
// texts) of one position.
func QuestionTextsKey(position string) string {
	return fmt.Sprintf("%s:questions:texts:%s", keyPrefix, normalizeKeyPart(position))
}

// PositionsKey is the cache key for the list of known positions.
func PositionsKey() string {
	return keyPrefix + ":positions"
}

// normalizeKeyPart makes a stable key fragment out of free-form input.
func normalizeKeyPart(part string) string {
	part = strings.TrimSpace(strings.ToLower(part))
	if part == "" {
		return "all"
	}
	return strings.ReplaceAll(part, " ", "_")
}
