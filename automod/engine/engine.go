package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/automod/cachestore"
	"github.com/mleandrojr/mslovelace-bot/automod/shield"
	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// ErrMalformedEvent indicates a raw update with no identifiable chat; the
// pipeline run aborts immediately and nothing is persisted.
var ErrMalformedEvent = errors.New("malformed event: no identifiable chat")

// ChatAPI is the outbound platform collaborator. Each method is an
// independently-fallible remote call; the engine catches and logs failures
// at call sites rather than propagating them out of a run.
type ChatAPI interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error)
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	BanChatMember(ctx context.Context, chatID, userID int64) error
	RestrictChatMember(ctx context.Context, chatID, userID int64, perms telegram.ChatPermissions) error
	GetChatAdministrators(ctx context.Context, chatID int64) ([]telegram.ChatMember, error)
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Runtime for processing chat events: normalization, the ordered action
// chain, command dispatch, and moderation state transitions.
//
// Engines hold no per-event mutable state; runs for distinct events execute
// concurrently against the same Engine.
type Engine struct {
	Logger    *slog.Logger
	Store     *store.Store
	API       ChatAPI
	Shield    *shield.Gate
	Cache     cachestore.CacheStore
	Actions   ActionSet
	Commands  CommandSet
	Callbacks CallbackSet
	// SelfID is the bot's own account ID; the engine refuses to warn or ban it.
	SelfID int64
	// Username, when set, filters commands addressed to other bots ("/cmd@other_bot").
	Username string
}

// ProcessUpdate runs the full pipeline for one raw update: normalize, run
// the action chain in declared order, then dispatch a command or callback if
// the event carries one. The only error returned is ErrMalformedEvent;
// everything else is handled and logged inside the run.
func (eng *Engine) ProcessUpdate(ctx context.Context, upd *telegram.Update) error {
	// similar to an HTTP server, we want to recover any panics from action execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("event execution exception", "err", r, "update", upd.UpdateID)
			eventErrorCount.WithLabelValues("panic").Inc()
		}
	}()

	c, err := NewContext(ctx, eng, upd)
	if err != nil {
		eng.Logger.Debug("skipping malformed update", "update", upd.UpdateID)
		eventErrorCount.WithLabelValues("malformed").Inc()
		return err
	}

	c.Logger.Debug("processing event")
	eventProcessCount.WithLabelValues(c.Kind).Inc()

	eng.Actions.Run(c)

	switch c.Kind {
	case KindMessage:
		eng.Commands.Dispatch(c)
	case KindCallback:
		eng.Callbacks.Dispatch(c)
	}
	return nil
}

// IsAdmin reports whether the user is an administrator of the chat. Private
// chats have no admin concept; the user is trivially privileged there.
// Results are cached, including the empty-list case; lookup failures resolve
// to false so a transport error can never grant privilege.
func (eng *Engine) IsAdmin(ctx context.Context, chat telegram.Chat, user telegram.User) bool {
	if chat.IsPrivate() {
		return true
	}

	chatKey := strconv.FormatInt(chat.ID, 10)
	cached, err := eng.Cache.Get(ctx, cachestore.AdminListCache, chatKey)
	if err != nil {
		eng.Logger.Warn("admin cache read failed", "err", err, "chat", chat.ID)
	}
	if cached != "" {
		for _, id := range cachestore.DecodeIDList(cached) {
			if id == user.ID {
				return true
			}
		}
		return false
	}

	admins, err := eng.API.GetChatAdministrators(ctx, chat.ID)
	if err != nil {
		eng.Logger.Error("admin list fetch failed", "err", err, "chat", chat.ID)
		return false
	}

	ids := make([]int64, 0, len(admins))
	isAdmin := false
	for _, m := range admins {
		ids = append(ids, m.User.ID)
		if m.User.ID == user.ID {
			isAdmin = true
		}
	}
	if err := eng.Cache.Set(ctx, cachestore.AdminListCache, chatKey, cachestore.EncodeIDList(ids)); err != nil {
		eng.Logger.Warn("admin cache write failed", "err", err, "chat", chat.ID)
	}
	return isAdmin
}

// chatLanguage resolves the chat's configured language, defaulting to
// English. The result is cached; language changes are rare enough that a TTL
// expiry is acceptable staleness.
func (eng *Engine) chatLanguage(ctx context.Context, chatID int64) string {
	chatKey := strconv.FormatInt(chatID, 10)
	if cached, err := eng.Cache.Get(ctx, cachestore.ChatLanguageCache, chatKey); err == nil && cached != "" {
		return cached
	}

	code := "en"
	if chat, err := eng.Store.GetChat(ctx, chatID); err == nil && chat.Language != "" {
		code = chat.Language
	}
	if err := eng.Cache.Set(ctx, cachestore.ChatLanguageCache, chatKey, code); err != nil {
		eng.Logger.Warn("language cache write failed", "err", err, "chat", chatID)
	}
	return code
}
