package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("12345:secret")
	c.Host = srv.URL
	c.Client = srv.Client()
	return c
}

func TestClientSelfID(t *testing.T) {
	assert.EqualValues(t, 12345, NewClient("12345:secret").SelfID())
	assert.Zero(t, NewClient("garbage").SelfID())
}

func TestClientSendMessage(t *testing.T) {
	var gotMethod string
	var gotParams SendMessageParams
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotParams))
		w.Write([]byte(`{"ok":true,"result":{"message_id":77,"chat":{"id":-100}}}`))
	})

	msg, err := c.SendMessage(context.Background(), SendMessageParams{
		ChatID:    -100,
		Text:      "hello",
		ParseMode: "HTML",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 77, msg.MessageID)
	assert.Equal(t, "/bot12345:secret/sendMessage", gotMethod)
	assert.Equal(t, "hello", gotParams.Text)
}

func TestClientAPIError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	_, err := c.SendMessage(context.Background(), SendMessageParams{ChatID: 1, Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.Contains(t, err.Error(), "400")
}

func TestClientBanAndRestrict(t *testing.T) {
	var paths []string
	var bodies []map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.Write([]byte(`{"ok":true,"result":true}`))
	})

	ctx := context.Background()
	require.NoError(t, c.BanChatMember(ctx, -100, 99))
	require.NoError(t, c.RestrictChatMember(ctx, -100, 99, ChatPermissions{}))
	require.NoError(t, c.DeleteMessage(ctx, -100, 5))

	require.Len(t, paths, 3)
	assert.Contains(t, paths[0], "banChatMember")
	assert.Contains(t, paths[1], "restrictChatMember")
	assert.Contains(t, paths[2], "deleteMessage")
	assert.EqualValues(t, 99, bodies[0]["user_id"])

	// a muting restriction carries an all-false permission set
	perms, ok := bodies[1]["permissions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, perms["can_send_messages"])
}

func TestClientGetChatAdministrators(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":[
			{"status":"creator","user":{"id":1,"first_name":"owner"}},
			{"status":"administrator","user":{"id":2,"first_name":"mod"}}
		]}`))
	})

	admins, err := c.GetChatAdministrators(context.Background(), -100)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "creator", admins[0].Status)
	assert.EqualValues(t, 2, admins[1].User.ID)
}

func TestClientGetMe(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":{"id":12345,"is_bot":true,"first_name":"Ada","username":"lovelace_bot"}}`))
	})

	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lovelace_bot", me.Username)
	assert.True(t, me.IsBot)
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", (&User{ID: 1, FirstName: "Ada", Username: "ada"}).DisplayName())
	assert.Equal(t, "ada", (&User{ID: 1, Username: "ada"}).DisplayName())
	assert.Equal(t, "1", (&User{ID: 1}).DisplayName())
}
