package commands

import (
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// The ban family shares one implementation with two switches: silent bans
// skip the confirmation message, delete bans also remove the replied-to
// message. Every variant records the ban before the outbound call, so the
// record survives an API failure.

var BanCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "ban", Description: "Ban a user from this chat."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: func(c *engine.Context, inv *engine.Invocation) error {
			return runBan(c, inv, false, false)
		},
	},
)

var SilentBanCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "sban", Description: "Ban a user without a confirmation message."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: func(c *engine.Context, inv *engine.Invocation) error {
			return runBan(c, inv, true, false)
		},
	},
)

var DeleteBanCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "dban", Description: "Ban a user and delete the replied-to message."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: func(c *engine.Context, inv *engine.Invocation) error {
			return runBan(c, inv, false, true)
		},
	},
)

var SilentDeleteBanCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "sdban", Description: "Silently ban a user and delete the replied-to message."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: func(c *engine.Context, inv *engine.Invocation) error {
			return runBan(c, inv, true, true)
		},
	},
)

func runBan(c *engine.Context, inv *engine.Invocation, silent, deleteReplied bool) error {
	if !requireAdmin(c) {
		return nil
	}
	target, rest := resolveTarget(c, inv)
	if target == nil {
		return nil
	}
	if c.IsSelf(*target) || c.IsAdmin(*target) {
		c.DeleteMessage()
		if !silent {
			c.Send(c.Localize("banErrorMessage"), nil)
		}
		return nil
	}

	if deleteReplied && c.Message != nil && c.Message.ReplyToMessage != nil {
		replied := c.Message.ReplyToMessage
		if err := c.API().DeleteMessage(c.Ctx, c.Chat.ID, replied.MessageID); err != nil {
			c.Logger.Error("delete replied message failed", "err", err, "message", replied.MessageID)
		}
	}

	reason := reasonFrom(c, rest)
	if err := c.InternalEngine().Ban(c, *target, reason); err != nil {
		return err
	}
	c.DeleteMessage()

	if !silent {
		c.Send(c.Localize("bannedMessage",
			"userid", strconv.FormatInt(target.ID, 10),
			"username", target.DisplayName(),
			"reason", reason,
		), nil)
	}
	return nil
}
