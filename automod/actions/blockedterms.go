package actions

import (
	"strings"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
)

var _ engine.ActionFunc = BlockedTermsAction

// BlockedTermsAction matches message text against the chat's blocked term
// list and applies each term's configured consequence. Administrators are
// exempt. Matching is a case-insensitive substring test.
func BlockedTermsAction(c *engine.Context) error {
	if c.Kind != engine.KindMessage || c.Message == nil || c.Message.Text == "" {
		return nil
	}
	if c.Sender != nil && c.IsAdmin(*c.Sender) {
		return nil
	}

	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	terms, err := c.Store().ListBlockedTerms(c.Ctx, crow.ID)
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		return nil
	}

	text := strings.ToLower(c.Message.Text)
	for _, term := range terms {
		if !strings.Contains(text, strings.ToLower(term.Term)) {
			continue
		}
		if err := c.InternalEngine().ApplyBlockedTerm(c, term); err != nil {
			return err
		}
		if c.Terminated() {
			break
		}
	}
	return nil
}
