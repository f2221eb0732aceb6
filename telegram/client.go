package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const defaultAPIHost = "https://api.telegram.org"

// Telegram enforces roughly 30 bot messages per second across all chats.
var defaultSendLimit = rate.Limit(30)

// Client is a minimal Bot API client covering the methods this bot issues.
// Each method is a single fallible remote call; callers are expected to
// handle (usually just log) failures individually.
type Client struct {
	Host   string
	Client *http.Client

	token   string
	limiter *rate.Limiter
}

func NewClient(token string) *Client {
	return &Client{
		Host:    defaultAPIHost,
		Client:  RobustHTTPClient(),
		token:   token,
		limiter: rate.NewLimiter(defaultSendLimit, 5),
	}
}

// SelfID extracts the bot's own account ID from the token ("<id>:<secret>").
func (c *Client) SelfID() int64 {
	idStr, _, ok := strings.Cut(c.token, ":")
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", method, err)
	}

	u := fmt.Sprintf("%s/bot%s/%s", c.Host, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !ar.OK {
		return fmt.Errorf("%s failed: %s (code %d)", method, ar.Description, ar.ErrorCode)
	}
	if out != nil && ar.Result != nil {
		if err := json.Unmarshal(ar.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	payload := map[string]int64{
		"chat_id":    chatID,
		"message_id": messageID,
	}
	return c.call(ctx, "deleteMessage", payload, nil)
}

func (c *Client) BanChatMember(ctx context.Context, chatID, userID int64) error {
	payload := map[string]int64{
		"chat_id": chatID,
		"user_id": userID,
	}
	return c.call(ctx, "banChatMember", payload, nil)
}

// RestrictChatMember applies the given permission set to a member. An empty
// ChatPermissions value mutes the member entirely.
func (c *Client) RestrictChatMember(ctx context.Context, chatID, userID int64, perms ChatPermissions) error {
	payload := map[string]any{
		"chat_id":     chatID,
		"user_id":     userID,
		"permissions": perms,
	}
	return c.call(ctx, "restrictChatMember", payload, nil)
}

func (c *Client) GetChatAdministrators(ctx context.Context, chatID int64) ([]ChatMember, error) {
	payload := map[string]int64{"chat_id": chatID}
	var members []ChatMember
	if err := c.call(ctx, "getChatAdministrators", payload, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]string{
		"callback_query_id": callbackID,
	}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	payload := map[string]any{"commands": commands}
	return c.call(ctx, "setMyCommands", payload, nil)
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, "getMe", struct{}{}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
