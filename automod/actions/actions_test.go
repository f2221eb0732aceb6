package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

var testChat = telegram.Chat{ID: -100700, Type: "supergroup", Title: "test chat"}

func joinUpdate(user telegram.User) *telegram.Update {
	return &telegram.Update{
		Message: &telegram.Message{
			MessageID:      1,
			Chat:           testChat,
			From:           &user,
			NewChatMembers: []telegram.User{user},
		},
	}
}

func messageUpdate(user telegram.User, text string) *telegram.Update {
	return &telegram.Update{
		Message: &telegram.Message{
			MessageID: 2,
			Chat:      testChat,
			From:      &user,
			Text:      text,
		},
	}
}

func newContext(t *testing.T, eng *engine.Engine, upd *telegram.Update) *engine.Context {
	t.Helper()
	c, err := engine.NewContext(context.Background(), eng, upd)
	require.NoError(t, err)
	return c
}

func TestAdaShieldActionBansFlaggedJoin(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	eng.Shield.CAS = &engine.StubReputation{Flagged: true}
	spammer := telegram.User{ID: 666, FirstName: "spam"}

	c := newContext(t, eng, joinUpdate(spammer))
	require.NoError(t, AdaShieldAction(c))

	require.Len(t, api.Banned, 1)
	assert.Equal(t, [2]int64{testChat.ID, spammer.ID}, api.Banned[0])
	require.Len(t, api.Sent, 1)
	assert.Contains(t, api.Sent[0].Text, "CAS")

	// the member row records the rejection
	urow, err := eng.Store.GetUser(c.Ctx, spammer.ID)
	require.NoError(t, err)
	crow, err := eng.Store.GetChat(c.Ctx, testChat.ID)
	require.NoError(t, err)
	m, err := eng.Store.GetMember(c.Ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.False(t, m.Joined)
	assert.False(t, m.Checked)
}

func TestAdaShieldActionSkips(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	eng.Shield.CAS = &engine.StubReputation{Flagged: true}
	member := telegram.User{ID: 10, FirstName: "fine"}

	// non-membership events pass through untouched
	c := newContext(t, eng, messageUpdate(member, "hello"))
	require.NoError(t, AdaShieldAction(c))
	assert.Empty(t, api.Banned)

	// a chat with the shield disabled admits anyone
	crow, err := eng.Store.UpsertChat(context.Background(), testChat)
	require.NoError(t, err)
	require.NoError(t, eng.Store.SetAdaShield(context.Background(), crow.ID, false))

	c = newContext(t, eng, joinUpdate(member))
	require.NoError(t, AdaShieldAction(c))
	assert.Empty(t, api.Banned)
}

func TestAdaShieldActionCleanJoin(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	member := telegram.User{ID: 10, FirstName: "fine"}

	c := newContext(t, eng, joinUpdate(member))
	require.NoError(t, AdaShieldAction(c))
	assert.Empty(t, api.Banned)
	assert.Empty(t, api.Sent)
}

func TestSaveMemberAction(t *testing.T) {
	eng, _ := engine.EngineTestFixture(t)
	member := telegram.User{ID: 10, FirstName: "fine", Username: "fine_user"}

	c := newContext(t, eng, messageUpdate(member, "hello"))
	require.NoError(t, SaveMemberAction(c))

	urow, err := eng.Store.GetUser(c.Ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "fine_user", urow.Username)
	crow, err := eng.Store.GetChat(c.Ctx, testChat.ID)
	require.NoError(t, err)
	m, err := eng.Store.GetMember(c.Ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.True(t, m.Joined)

	// running it again converges instead of failing on the unique index
	c = newContext(t, eng, messageUpdate(member, "hello again"))
	require.NoError(t, SaveMemberAction(c))
}

func TestBlockedTermsActionBan(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	ctx := context.Background()
	crow, err := eng.Store.UpsertChat(ctx, testChat)
	require.NoError(t, err)
	require.NoError(t, eng.Store.UpsertBlockedTerm(ctx, crow.ID, "casino", store.TermActionBan))
	require.NoError(t, eng.Store.UpsertBlockedTerm(ctx, crow.ID, "crypto", store.TermActionMute))

	sender := telegram.User{ID: 10, FirstName: "spam"}
	c := newContext(t, eng, messageUpdate(sender, "Best CASINO and crypto deals"))
	require.NoError(t, BlockedTermsAction(c))

	// banned on the first match; the second matched term is never applied
	assert.Len(t, api.Deleted, 1)
	assert.Len(t, api.Banned, 1)
	assert.Empty(t, api.Restricted)
	assert.True(t, c.Terminated())
}

func TestBlockedTermsActionMute(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	ctx := context.Background()
	crow, err := eng.Store.UpsertChat(ctx, testChat)
	require.NoError(t, err)
	require.NoError(t, eng.Store.UpsertBlockedTerm(ctx, crow.ID, "crypto", store.TermActionMute))

	c := newContext(t, eng, messageUpdate(telegram.User{ID: 10}, "crypto deals"))
	require.NoError(t, BlockedTermsAction(c))

	assert.Len(t, api.Deleted, 1)
	assert.Len(t, api.Restricted, 1)
	assert.Empty(t, api.Banned)
	assert.False(t, c.Terminated())
}

func TestBlockedTermsActionExemptsAdmins(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	ctx := context.Background()
	crow, err := eng.Store.UpsertChat(ctx, testChat)
	require.NoError(t, err)
	require.NoError(t, eng.Store.UpsertBlockedTerm(ctx, crow.ID, "casino", store.TermActionBan))

	admin := telegram.User{ID: 7, FirstName: "mod"}
	api.Admins[testChat.ID] = []telegram.ChatMember{{Status: "administrator", User: admin}}

	c := newContext(t, eng, messageUpdate(admin, "casino talk"))
	require.NoError(t, BlockedTermsAction(c))
	assert.Empty(t, api.Deleted)
	assert.Empty(t, api.Banned)
}

func TestGreetingsAction(t *testing.T) {
	eng, api := engine.EngineTestFixture(t)
	ctx := context.Background()
	member := telegram.User{ID: 10, FirstName: "newbie"}

	// greetings default off
	c := newContext(t, eng, joinUpdate(member))
	require.NoError(t, GreetingsAction(c))
	assert.Empty(t, api.Sent)

	crow, err := eng.Store.UpsertChat(ctx, testChat)
	require.NoError(t, err)
	require.NoError(t, eng.Store.SetGreetings(ctx, crow.ID, true))

	c = newContext(t, eng, joinUpdate(member))
	require.NoError(t, GreetingsAction(c))
	require.Len(t, api.Sent, 1)
	assert.Contains(t, api.Sent[0].Text, "newbie")
}
