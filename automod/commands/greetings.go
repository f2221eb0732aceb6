package commands

import (
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// GreetingsCommand toggles welcome messages per chat.
var GreetingsCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "greetings", Description: "Show or toggle welcome messages."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: greetingsStatusHandler,
		"on":                greetingsToggleHandler(true),
		"off":               greetingsToggleHandler(false),
	},
)

func greetingsStatusHandler(c *engine.Context, inv *engine.Invocation) error {
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	enabled := crow.Config != nil && crow.Config.Greetings
	c.Reply(c.Localize("greetingsStatus", "status", statusText(c, enabled)))
	return nil
}

func greetingsToggleHandler(enabled bool) engine.HandlerFunc {
	return func(c *engine.Context, inv *engine.Invocation) error {
		if !requireAdmin(c) {
			return nil
		}
		crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
		if err != nil {
			return err
		}
		if err := c.Store().SetGreetings(c.Ctx, crow.ID, enabled); err != nil {
			return err
		}
		c.Send(c.Localize("greetingsStatus", "status", statusText(c, enabled)), nil)
		return nil
	}
}
