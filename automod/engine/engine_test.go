package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleandrojr/mslovelace-bot/automod/cachestore"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

func TestIsAdminCachesResult(t *testing.T) {
	eng, api := EngineTestFixture(t)
	ctx := context.Background()
	chat := telegram.Chat{ID: -100910, Type: "supergroup"}
	admin := telegram.User{ID: 7}
	pleb := telegram.User{ID: 8}
	api.Admins[chat.ID] = []telegram.ChatMember{{User: admin, Status: "administrator"}}

	assert.True(t, eng.IsAdmin(ctx, chat, admin))
	assert.False(t, eng.IsAdmin(ctx, chat, pleb))
	assert.True(t, eng.IsAdmin(ctx, chat, admin))
	assert.Equal(t, 1, api.AdminFetches)
}

func TestIsAdminCachesEmptyAdminList(t *testing.T) {
	eng, api := EngineTestFixture(t)
	ctx := context.Background()
	chat := telegram.Chat{ID: -100911, Type: "supergroup"}
	user := telegram.User{ID: 9}

	// chat with no administrators: the empty answer must be cached too
	assert.False(t, eng.IsAdmin(ctx, chat, user))
	assert.False(t, eng.IsAdmin(ctx, chat, user))
	assert.Equal(t, 1, api.AdminFetches)
}

func TestChatLanguageCached(t *testing.T) {
	eng, _ := EngineTestFixture(t)
	ctx := context.Background()

	// a cached value wins even with no chat row in the database
	require.NoError(t, eng.Cache.Set(ctx, cachestore.ChatLanguageCache, "-100912", "pt"))
	assert.Equal(t, "pt", eng.chatLanguage(ctx, -100912))

	// a miss resolves through the store and lands in the cache
	assert.Equal(t, "en", eng.chatLanguage(ctx, -100913))
	cached, err := eng.Cache.Get(ctx, cachestore.ChatLanguageCache, "-100913")
	require.NoError(t, err)
	assert.Equal(t, "en", cached)
}
