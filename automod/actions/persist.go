package actions

import (
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
)

var _ engine.ActionFunc = SaveMemberAction

// SaveMemberAction upserts the acting user, the chat, and their relation row
// for every event. The upsert always runs, even when an earlier unit flagged
// the user, so retried and concurrent runs converge on the same rows.
func SaveMemberAction(c *engine.Context) error {
	user := c.ActingUser()
	if user == nil {
		return nil
	}
	return c.InternalEngine().RecordJoin(c, *user)
}
