package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/lang"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// Event kinds produced by normalization.
const (
	KindMessage     = "message"
	KindMemberJoin  = "member_join"
	KindMemberLeave = "member_leave"
	KindCallback    = "callback"
	KindReaction    = "reaction"
)

// Context is the primary interface exposed to actions and command handlers.
// One Context exists per pipeline run and is never persisted; it carries the
// normalized event plus indirect access to the engine's collaborators.
type Context struct {
	// Actual golang "context.Context", for timeouts etc
	Ctx context.Context
	// slog logger handle, with event-specific structured fields pre-populated. Expected to never be nil.
	Logger *slog.Logger

	Kind string
	Chat telegram.Chat
	// Sender is the message author or callback actor, when there is one.
	Sender *telegram.User
	// NewMembers / LeftMember are set for membership-change events.
	NewMembers []telegram.User
	LeftMember *telegram.User
	Message    *telegram.Message
	Callback   *telegram.CallbackQuery
	// Update is the raw payload, as an escape hatch for fields the
	// normalized view doesn't expose.
	Update *telegram.Update

	engine   *Engine // expected never to be nil
	terminal atomic.Bool

	langOnce sync.Once
	language string
}

func NewContext(ctx context.Context, eng *Engine, upd *telegram.Update) (*Context, error) {
	c := &Context{
		Ctx:    ctx,
		engine: eng,
		Update: upd,
	}

	switch {
	case upd.Message != nil, upd.EditedMessage != nil:
		msg := upd.Message
		if msg == nil {
			msg = upd.EditedMessage
		}
		c.Chat = msg.Chat
		c.Sender = msg.From
		c.Message = msg
		switch {
		case len(msg.NewChatMembers) > 0:
			c.Kind = KindMemberJoin
			c.NewMembers = msg.NewChatMembers
		case msg.LeftChatMember != nil:
			c.Kind = KindMemberLeave
			c.LeftMember = msg.LeftChatMember
		default:
			c.Kind = KindMessage
		}
	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return nil, ErrMalformedEvent
		}
		c.Kind = KindCallback
		c.Chat = cb.Message.Chat
		c.Sender = &cb.From
		c.Message = cb.Message
		c.Callback = cb
	case upd.MessageReaction != nil:
		c.Kind = KindReaction
		c.Chat = upd.MessageReaction.Chat
		c.Sender = upd.MessageReaction.User
	default:
		return nil, ErrMalformedEvent
	}

	if c.Chat.ID == 0 {
		return nil, ErrMalformedEvent
	}

	c.Logger = eng.Logger.With("kind", c.Kind, "chat", c.Chat.ID)
	if actor := c.ActingUser(); actor != nil {
		c.Logger = c.Logger.With("user", actor.ID)
	}
	return c, nil
}

// ActingUser resolves "the" user of the event with a fixed precedence: the
// joined member, else the departed member, else the sender.
func (c *Context) ActingUser() *telegram.User {
	if len(c.NewMembers) > 0 {
		return &c.NewMembers[0]
	}
	if c.LeftMember != nil {
		return c.LeftMember
	}
	return c.Sender
}

// Terminate stops dispatch of any remaining actions in this pipeline run.
// Already-started fire-and-forget actions are not cancelled.
func (c *Context) Terminate() {
	c.terminal.Store(true)
}

func (c *Context) Terminated() bool {
	return c.terminal.Load()
}

// collaborator access (indirect) ======

func (c *Context) API() ChatAPI {
	return c.engine.API
}

func (c *Context) Store() *store.Store {
	return c.engine.Store
}

// InternalEngine returns a pointer to the underlying engine. This usually
// should NOT be used from actions or command handlers.
func (c *Context) InternalEngine() *Engine {
	return c.engine
}

// IsAdmin reports whether the user is an administrator of the event's chat.
// Lookup failures resolve to false.
func (c *Context) IsAdmin(user telegram.User) bool {
	return c.engine.IsAdmin(c.Ctx, c.Chat, user)
}

// IsSelf reports whether the user is the bot's own account.
func (c *Context) IsSelf(user telegram.User) bool {
	return c.engine.SelfID != 0 && user.ID == c.engine.SelfID
}

// Language returns the chat's configured language, resolved once per run.
func (c *Context) Language() string {
	c.langOnce.Do(func() {
		c.language = c.engine.chatLanguage(c.Ctx, c.Chat.ID)
	})
	return c.language
}

// Localize resolves a message template in the chat's language, substituting
// {placeholder} pairs.
func (c *Context) Localize(key string, pairs ...string) string {
	return lang.GetReplaced(c.Language(), key, pairs...)
}

// Send delivers an HTML message to the event's chat. Failures are logged,
// not returned: a lost confirmation message never aborts moderation.
func (c *Context) Send(text string, markup *telegram.InlineKeyboardMarkup) {
	_, err := c.engine.API.SendMessage(c.Ctx, telegram.SendMessageParams{
		ChatID:             c.Chat.ID,
		Text:               text,
		ParseMode:          "HTML",
		ReplyMarkup:        markup,
		LinkPreviewOptions: &telegram.LinkPreviewOptions{IsDisabled: true},
	})
	if err != nil {
		c.Logger.Error("send message failed", "err", err)
	}
}

// Reply is like Send but references the event's message.
func (c *Context) Reply(text string) {
	params := telegram.SendMessageParams{
		ChatID:             c.Chat.ID,
		Text:               text,
		ParseMode:          "HTML",
		LinkPreviewOptions: &telegram.LinkPreviewOptions{IsDisabled: true},
	}
	if c.Message != nil {
		params.ReplyToMessageID = c.Message.MessageID
	}
	if _, err := c.engine.API.SendMessage(c.Ctx, params); err != nil {
		c.Logger.Error("send reply failed", "err", err)
	}
}

// DeleteMessage removes the event's message; failures are logged only.
func (c *Context) DeleteMessage() {
	if c.Message == nil {
		return
	}
	if err := c.engine.API.DeleteMessage(c.Ctx, c.Chat.ID, c.Message.MessageID); err != nil {
		c.Logger.Error("delete message failed", "err", err, "message", c.Message.MessageID)
	}
}
