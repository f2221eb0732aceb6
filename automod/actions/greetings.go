package actions

import (
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
)

var _ engine.ActionFunc = GreetingsAction

// GreetingsAction welcomes new members when the chat has greetings enabled.
// It runs fire-and-forget, so slow sends never hold up the rest of the chain.
func GreetingsAction(c *engine.Context) error {
	if c.Kind != engine.KindMemberJoin || len(c.NewMembers) == 0 {
		return nil
	}

	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	if crow.Config == nil || !crow.Config.Greetings {
		return nil
	}

	for _, user := range c.NewMembers {
		if c.IsSelf(user) {
			continue
		}
		c.Send(c.Localize("greetingsMessage",
			"userid", strconv.FormatInt(user.ID, 10),
			"username", user.DisplayName(),
		), nil)
	}
	return nil
}
