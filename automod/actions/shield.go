package actions

import (
	"fmt"
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/automod/shield"
)

var _ engine.ActionFunc = AdaShieldAction

// AdaShieldAction gates membership-change events through the anti-spam
// shield. A flagged member is banned from the chat and their relation row is
// marked unjoined/unchecked; the chain continues so later policy units still
// see the event.
func AdaShieldAction(c *engine.Context) error {
	if c.Kind != engine.KindMemberJoin && c.Kind != engine.KindMemberLeave {
		return nil
	}
	member := c.ActingUser()
	if member == nil {
		return nil
	}

	eng := c.InternalEngine()
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return fmt.Errorf("upserting chat: %w", err)
	}
	if crow.Config != nil && !crow.Config.AdaShield {
		return nil
	}

	flagged, source := eng.Shield.Check(c.Ctx, *member)
	if !flagged {
		return nil
	}

	if err := c.API().BanChatMember(c.Ctx, c.Chat.ID, member.ID); err != nil {
		c.Logger.Error("shield ban call failed", "err", err, "target", member.ID)
	}

	urow, err := c.Store().UpsertUser(c.Ctx, *member)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	if err := c.Store().MarkMemberFlagged(c.Ctx, urow.ID, crow.ID); err != nil {
		return fmt.Errorf("flagging member: %w", err)
	}

	key := "adaShieldMessage"
	if source == shield.SourceCAS {
		key = "casMessage"
	}
	c.Send(c.Localize(key,
		"userid", strconv.FormatInt(member.ID, 10),
		"username", member.DisplayName(),
	), nil)
	return nil
}
