package cachestore

import (
	"context"
	"strconv"
	"strings"
)

// Cache names for the read-side lookups the engine makes on every event.
const (
	// AdminListCache holds the encoded admin user ID list per chat.
	AdminListCache = "admin-list"
	// ChatLanguageCache holds the resolved language code per chat.
	ChatLanguageCache = "chat-language"
)

type CacheStore interface {
	Get(ctx context.Context, name, key string) (string, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}

func cacheKey(name, key string) string {
	return "automod:" + name + ":" + key
}

// emptyIDList marks a cached empty set. Get reports a miss as "", so an
// empty result needs a non-empty encoding to be cacheable at all.
const emptyIDList = "-"

// EncodeIDList renders a user ID set as a cacheable string. An empty set
// encodes to a marker value, not "".
func EncodeIDList(ids []int64) string {
	if len(ids) == 0 {
		return emptyIDList
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// DecodeIDList parses an EncodeIDList value back into IDs. Unparseable
// entries are skipped.
func DecodeIDList(val string) []int64 {
	if val == "" || val == emptyIDList {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(val, ",") {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
