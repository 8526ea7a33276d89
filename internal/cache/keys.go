package cache

import "strings"

const (
	GlobalKeyPrefix = "auknowlog"
)

// GenerateCacheKey generates a cache key for a given service, object type,
// and identifier, joined with ":".
func GenerateCacheKey(serviceName, objectType, identifier string) string {
	return strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
}

// PreviewsKey is the cache key for a topic's recent question previews.
func PreviewsKey(topic string) string {
	return GenerateCacheKey("generator", "previews", topic)
}
