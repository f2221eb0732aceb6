package commands

import (
	"strconv"
	"strings"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// requireAdmin gates a moderation command on the sender's admin status. A
// non-admin invocation is dropped silently and the command message removed,
// so the command surface leaks nothing to regular members.
func requireAdmin(c *engine.Context) bool {
	if c.Sender == nil || !c.IsAdmin(*c.Sender) {
		c.DeleteMessage()
		return false
	}
	return true
}

// resolveTarget finds the user a moderation command refers to, with a fixed
// precedence: the replied-to message's author, then a rich text mention
// entity, then an @username resolved through the local user table, then a
// numeric Telegram ID. The returned slice holds the arguments left over
// after target resolution (typically the reason).
func resolveTarget(c *engine.Context, inv *engine.Invocation) (*telegram.User, []string) {
	if c.Message != nil && c.Message.ReplyToMessage != nil && c.Message.ReplyToMessage.From != nil {
		return c.Message.ReplyToMessage.From, inv.Args
	}

	if c.Message != nil {
		for _, ent := range c.Message.Entities {
			if ent.Type == "text_mention" && ent.User != nil {
				return ent.User, inv.Args
			}
		}
	}

	if len(inv.Args) == 0 {
		return nil, inv.Args
	}

	if username, ok := strings.CutPrefix(inv.Args[0], "@"); ok {
		urow, err := c.Store().GetUserByUsername(c.Ctx, username)
		if err != nil {
			c.Logger.Debug("unknown mention target", "username", username)
			return nil, inv.Args
		}
		return &telegram.User{
			ID:        urow.TelegramID,
			Username:  urow.Username,
			FirstName: urow.FirstName,
			LastName:  urow.LastName,
			IsBot:     urow.IsBot,
		}, inv.Args[1:]
	}

	if id, err := strconv.ParseInt(inv.Args[0], 10, 64); err == nil && id > 0 {
		return &telegram.User{ID: id}, inv.Args[1:]
	}
	return nil, inv.Args
}

// reasonFrom joins the leftover arguments into a free-form reason, falling
// back to the localized "not specified" text.
func reasonFrom(c *engine.Context, args []string) string {
	if len(args) == 0 {
		return c.Localize("reasonUnknown")
	}
	return strings.Join(args, " ")
}
