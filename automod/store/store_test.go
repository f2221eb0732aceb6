package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleandrojr/mslovelace-bot/telegram"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := SetupDatabase("sqlite://:memory:", 1)
	require.NoError(t, err)
	st, err := New(db)
	require.NoError(t, err)
	return st
}

func TestUpsertUserIdempotent(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first, err := st.UpsertUser(ctx, telegram.User{ID: 42, FirstName: "ada", Username: "ada"})
	require.NoError(t, err)

	second, err := st.UpsertUser(ctx, telegram.User{ID: 42, FirstName: "Ada", Username: "countess"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada", second.FirstName)
	assert.Equal(t, "countess", second.Username)

	byName, err := st.GetUserByUsername(ctx, "countess")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byName.ID)
}

func TestUpsertChatCreatesConfig(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	crow, err := st.UpsertChat(ctx, telegram.Chat{ID: -100, Type: "supergroup", Title: "test"})
	require.NoError(t, err)
	require.NotNil(t, crow.Config)
	assert.True(t, crow.Config.AdaShield)
	assert.Equal(t, 3, crow.WarningLimit())

	require.NoError(t, st.SetAdaShield(ctx, crow.ID, false))
	crow, err = st.GetChat(ctx, -100)
	require.NoError(t, err)
	require.NotNil(t, crow.Config)
	assert.False(t, crow.Config.AdaShield)
}

func TestRecordJoinUpsert(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	urow, err := st.UpsertUser(ctx, telegram.User{ID: 1})
	require.NoError(t, err)
	crow, err := st.UpsertChat(ctx, telegram.Chat{ID: -1, Type: "group"})
	require.NoError(t, err)

	require.NoError(t, st.RecordJoin(ctx, urow.ID, crow.ID, true))
	m, err := st.GetMember(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.True(t, m.Joined)
	assert.True(t, m.Checked)

	// flagging marks the member unjoined and unchecked
	require.NoError(t, st.MarkMemberFlagged(ctx, urow.ID, crow.ID))
	m, err = st.GetMember(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.False(t, m.Joined)
	assert.False(t, m.Checked)

	// a re-join restores joined without resetting the checked flag
	require.NoError(t, st.RecordJoin(ctx, urow.ID, crow.ID, true))
	m, err = st.GetMember(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.True(t, m.Joined)
	assert.False(t, m.Checked)
}

func TestWarningsLifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	urow, err := st.UpsertUser(ctx, telegram.User{ID: 1})
	require.NoError(t, err)
	crow, err := st.UpsertChat(ctx, telegram.Chat{ID: -1, Type: "group"})
	require.NoError(t, err)
	other, err := st.UpsertChat(ctx, telegram.Chat{ID: -2, Type: "group"})
	require.NoError(t, err)

	w1, err := st.AddWarning(ctx, urow.ID, crow.ID, "first")
	require.NoError(t, err)
	_, err = st.AddWarning(ctx, urow.ID, crow.ID, "second")
	require.NoError(t, err)

	warnings, err := st.ListWarnings(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)

	// warnings are chat-scoped
	warnings, err = st.ListWarnings(ctx, urow.ID, other.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// deletion is chat-scoped too: a wrong chat ID removes nothing
	require.NoError(t, st.DeleteWarning(ctx, w1.ID, other.ID))
	warnings, err = st.ListWarnings(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)

	require.NoError(t, st.DeleteWarning(ctx, w1.ID, crow.ID))
	warnings, err = st.ListWarnings(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)

	require.NoError(t, st.ClearWarnings(ctx, urow.ID, crow.ID))
	warnings, err = st.ListWarnings(ctx, urow.ID, crow.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestBanScopes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	urow, err := st.UpsertUser(ctx, telegram.User{ID: 1})
	require.NoError(t, err)
	crow, err := st.UpsertChat(ctx, telegram.Chat{ID: -1, Type: "group"})
	require.NoError(t, err)
	other, err := st.UpsertChat(ctx, telegram.Chat{ID: -2, Type: "group"})
	require.NoError(t, err)

	// a chat-scoped ban does not leak into other chats
	require.NoError(t, st.CreateBan(ctx, urow.ID, crow.ID, nil, "spam"))
	banned, err := st.IsBanned(ctx, urow.ID, crow.ID, nil)
	require.NoError(t, err)
	assert.True(t, banned)
	banned, err = st.IsBanned(ctx, urow.ID, other.ID, nil)
	require.NoError(t, err)
	assert.False(t, banned)

	// duplicate ban writes converge on the single row
	require.NoError(t, st.CreateBan(ctx, urow.ID, crow.ID, nil, "spam again"))

	// a federation-scoped ban is visible from any chat sharing the federation
	fed, err := st.CreateFederation(ctx, 1, "test")
	require.NoError(t, err)
	fedTarget, err := st.UpsertUser(ctx, telegram.User{ID: 2})
	require.NoError(t, err)
	require.NoError(t, st.CreateBan(ctx, fedTarget.ID, crow.ID, &fed.ID, "fed spam"))
	banned, err = st.IsBanned(ctx, fedTarget.ID, other.ID, &fed.ID)
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestShieldEntryLookup(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	_, err := st.GetShieldEntry(ctx, 1, "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.UpsertShieldEntry(ctx, 1, "spammer", "cas"))

	entry, err := st.GetShieldEntry(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "cas", entry.Reason)

	entry, err = st.GetShieldEntry(ctx, 999, "spammer")
	require.NoError(t, err)
	assert.EqualValues(t, 1, entry.TelegramID)

	// upsert refreshes the reason for an existing entry
	require.NoError(t, st.UpsertShieldEntry(ctx, 1, "spammer", "shield"))
	entry, err = st.GetShieldEntry(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "shield", entry.Reason)
}

func TestBlockedTerms(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	crow, err := st.UpsertChat(ctx, telegram.Chat{ID: -1, Type: "group"})
	require.NoError(t, err)

	require.NoError(t, st.UpsertBlockedTerm(ctx, crow.ID, "casino", TermActionMute))
	require.NoError(t, st.UpsertBlockedTerm(ctx, crow.ID, "crypto", TermActionWarn))
	// re-adding a term updates its action in place
	require.NoError(t, st.UpsertBlockedTerm(ctx, crow.ID, "casino", TermActionBan))

	terms, err := st.ListBlockedTerms(ctx, crow.ID)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "casino", terms[0].Term)
	assert.Equal(t, TermActionBan, terms[0].Action)

	require.NoError(t, st.DeleteBlockedTerm(ctx, crow.ID, "casino"))
	terms, err = st.ListBlockedTerms(ctx, crow.ID)
	require.NoError(t, err)
	assert.Len(t, terms, 1)
}
