package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// WarnCommand appends a warning to the target and reports the running count.
// Reaching the chat's warning limit bans the target.
var WarnCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "warn", Description: "Warn a user. Reaching the limit bans them."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: warnHandler,
	},
)

func warnHandler(c *engine.Context, inv *engine.Invocation) error {
	if !requireAdmin(c) {
		return nil
	}
	target, rest := resolveTarget(c, inv)
	if target == nil {
		return nil
	}

	state, err := c.InternalEngine().AddWarning(c, *target, reasonFrom(c, rest))
	if err != nil {
		return err
	}
	c.DeleteMessage()

	if state.Refusal != "" {
		c.Send(c.Localize(state.Refusal), nil)
		return nil
	}
	text, markup := engine.WarningReport(c, *target, state)
	c.Send(text, markup)
	return nil
}

// DelWarnCommand clears every warning the target holds in this chat.
var DelWarnCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "delwarn", Description: "Remove all of a user's warnings in this chat."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: delWarnHandler,
	},
)

func delWarnHandler(c *engine.Context, inv *engine.Invocation) error {
	if !requireAdmin(c) {
		return nil
	}
	target, _ := resolveTarget(c, inv)
	if target == nil {
		return nil
	}

	urow, err := c.Store().UpsertUser(c.Ctx, *target)
	if err != nil {
		return err
	}
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	if err := c.Store().ClearWarnings(c.Ctx, urow.ID, crow.ID); err != nil {
		return err
	}
	c.DeleteMessage()
	c.Send(c.Localize("warningRemovedMessage"), nil)
	return nil
}

// WarningRemovalCallback backs the buttons attached to warning reports. The
// payload is "userID,chatID" to clear all warnings, or "userID,chatID,rowID"
// to remove one. The report message is deleted once the removal lands, so a
// stale count never lingers in the chat.
func WarningRemovalCallback(c *engine.Context, data *engine.CallbackData) error {
	if c.Sender == nil || !c.IsAdmin(*c.Sender) {
		answerCallback(c, "")
		return nil
	}

	parts := strings.Split(data.Data, ",")
	if len(parts) < 2 {
		return fmt.Errorf("malformed warning callback payload: %q", data.Data)
	}
	targetID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return fmt.Errorf("malformed warning callback target: %q", parts[0])
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || chatID != c.Chat.ID {
		// a payload minted for another chat must not clear warnings here
		return fmt.Errorf("warning callback chat mismatch: %q", parts[1])
	}

	urow, err := c.Store().GetUser(c.Ctx, targetID)
	if err != nil {
		return err
	}
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}

	if len(parts) >= 3 {
		rowID, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed warning callback row: %q", parts[2])
		}
		if err := c.Store().DeleteWarning(c.Ctx, uint(rowID), crow.ID); err != nil {
			return err
		}
	} else {
		if err := c.Store().ClearWarnings(c.Ctx, urow.ID, crow.ID); err != nil {
			return err
		}
	}

	c.DeleteMessage()
	answerCallback(c, c.Localize("warningRemovedMessage"))
	return nil
}

func answerCallback(c *engine.Context, text string) {
	if c.Callback == nil {
		return
	}
	if err := c.API().AnswerCallbackQuery(c.Ctx, c.Callback.ID, text); err != nil {
		c.Logger.Error("callback answer failed", "err", err)
	}
}
