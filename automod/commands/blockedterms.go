package commands

import (
	"fmt"
	"strings"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// BlockedTermsCommand manages the chat's blocked term list. The bare command
// lists the terms; add/del mutate the list and are admin-only.
var BlockedTermsCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "blockedterms", Description: "List or manage blocked terms."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: blockedTermsListHandler,
		"add":               blockedTermsAddHandler,
		"del":               blockedTermsDelHandler,
	},
)

func blockedTermsListHandler(c *engine.Context, inv *engine.Invocation) error {
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	terms, err := c.Store().ListBlockedTerms(c.Ctx, crow.ID)
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		c.Reply(c.Localize("blockedTermsEmpty"))
		return nil
	}

	var b strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&b, " • <code>%s</code> (%s)\n", t.Term, t.Action)
	}
	c.Reply(c.Localize("blockedTermsList", "terms", b.String()))
	return nil
}

func blockedTermsAddHandler(c *engine.Context, inv *engine.Invocation) error {
	if !requireAdmin(c) {
		return nil
	}
	if len(inv.Args) < 2 {
		c.Reply(c.Localize("blockedTermUsage"))
		return nil
	}

	action := strings.ToLower(inv.Args[len(inv.Args)-1])
	switch action {
	case store.TermActionMute, store.TermActionBan, store.TermActionWarn:
	default:
		c.Reply(c.Localize("blockedTermUsage"))
		return nil
	}
	term := strings.ToLower(strings.Join(inv.Args[:len(inv.Args)-1], " "))

	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	if err := c.Store().UpsertBlockedTerm(c.Ctx, crow.ID, term, action); err != nil {
		return err
	}
	c.Reply(c.Localize("blockedTermAdded", "action", action))
	return nil
}

func blockedTermsDelHandler(c *engine.Context, inv *engine.Invocation) error {
	if !requireAdmin(c) {
		return nil
	}
	if len(inv.Args) == 0 {
		c.Reply(c.Localize("blockedTermUsage"))
		return nil
	}

	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	term := strings.ToLower(strings.Join(inv.Args, " "))
	if err := c.Store().DeleteBlockedTerm(c.Ctx, crow.ID, term); err != nil {
		return err
	}
	c.Reply(c.Localize("blockedTermRemoved"))
	return nil
}
