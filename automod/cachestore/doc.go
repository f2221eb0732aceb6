// Read-side cache for the moderation engine. Chat admin lists and chat
// language lookups would otherwise hit the Bot API or the database on every
// event. A cache miss is (empty string, nil), not an error.
package cachestore
