package cache

import "strings"

const GlobalKeyPrefix = "studybuddy"

// GenerateCacheKey builds "studybuddy:<service>:<object>:<id>", with any
// params joined by "_" as a trailing segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	parts := []string{GlobalKeyPrefix, serviceName, objectType, identifier}
	if len(paramsKey) > 0 {
		parts = append(parts, strings.Join(paramsKey, "_"))
	}
	return strings.Join(parts, ":")
}
