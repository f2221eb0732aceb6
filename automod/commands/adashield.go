package commands

import (
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// AdaShieldCommand toggles the anti-spam shield per chat. With no parameter
// it reports the current state; "on" and "off" flip it.
var AdaShieldCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "adashield", Description: "Show or toggle the anti-spam shield."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: adaShieldStatusHandler,
		"on":                adaShieldToggleHandler(true),
		"off":               adaShieldToggleHandler(false),
	},
)

func adaShieldStatusHandler(c *engine.Context, inv *engine.Invocation) error {
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	enabled := crow.Config == nil || crow.Config.AdaShield
	c.Reply(c.Localize("adaShieldStatus", "status", statusText(c, enabled)))
	return nil
}

func adaShieldToggleHandler(enabled bool) engine.HandlerFunc {
	return func(c *engine.Context, inv *engine.Invocation) error {
		if !requireAdmin(c) {
			return nil
		}
		crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
		if err != nil {
			return err
		}
		if err := c.Store().SetAdaShield(c.Ctx, crow.ID, enabled); err != nil {
			return err
		}
		c.Send(c.Localize("adaShieldStatus", "status", statusText(c, enabled)), nil)
		return nil
	}
}

func statusText(c *engine.Context, enabled bool) string {
	if enabled {
		return c.Localize("textEnabled")
	}
	return c.Localize("textDisabled")
}
