package commands

import (
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// GetUserLinkCommand replies with a clickable deep link to the target user.
var GetUserLinkCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "getuserlink", Description: "Get a clickable link to a user."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: getUserLinkHandler,
	},
)

func getUserLinkHandler(c *engine.Context, inv *engine.Invocation) error {
	target, _ := resolveTarget(c, inv)
	if target == nil {
		return nil
	}
	c.Reply(c.Localize("userLink",
		"userid", strconv.FormatInt(target.ID, 10),
		"username", target.DisplayName(),
	))
	return nil
}
