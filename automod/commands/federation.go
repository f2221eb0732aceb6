package commands

import (
	"errors"

	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// FederationCommand groups the federation triggers. They are group-only:
// federations link chats, a private conversation has nothing to link. The
// shared index handler routes on the invoked trigger.
var FederationCommand = engine.MustCommand(
	[]telegram.BotCommand{
		{Command: "fshow", Description: "Show this chat's federation."},
		{Command: "fjoin", Description: "Join a federation by hash."},
		{Command: "fleave", Description: "Leave the current federation."},
	},
	map[string]engine.HandlerFunc{
		engine.IndexHandler: federationHandler,
	},
)

func federationHandler(c *engine.Context, inv *engine.Invocation) error {
	if c.Chat.IsPrivate() {
		c.Reply(c.Localize("federationCommandOnlyGroupError"))
		return nil
	}

	switch inv.Trigger {
	case "fshow":
		return federationShow(c)
	case "fjoin":
		return federationJoin(c, inv.Args)
	case "fleave":
		return federationLeave(c)
	}
	return nil
}

func federationShow(c *engine.Context) error {
	crow, err := c.Store().UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return err
	}
	if crow.FederationID == nil {
		c.Reply(c.Localize("federationLeaveNoFederationError"))
		return nil
	}
	fed, err := c.Store().GetFederationByID(c.Ctx, *crow.FederationID)
	if err != nil {
		return err
	}
	c.Reply(c.Localize("federationDetails",
		"federation", fed.Description,
		"hash", fed.Hash,
	))
	return nil
}

func federationJoin(c *engine.Context, args []string) error {
	if c.Sender == nil || !c.IsAdmin(*c.Sender) {
		c.Reply(c.Localize("federationJoinOnlyAdminError"))
		return nil
	}
	if len(args) == 0 {
		c.Reply(c.Localize("federationJoinNoHashError"))
		return nil
	}

	fed, err := c.InternalEngine().JoinFederation(c, args[0])
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.Reply(c.Localize("federationInvalidHashError"))
		return nil
	case errors.Is(err, store.ErrAlreadyInFederation):
		c.Reply(c.Localize("federationJoinHasFederationError"))
		return nil
	case err != nil:
		c.Reply(c.Localize("federationJoinError"))
		return err
	}
	c.Reply(c.Localize("federationJoinSuccess", "federation", fed.Description))
	return nil
}

func federationLeave(c *engine.Context) error {
	if c.Sender == nil || !c.IsAdmin(*c.Sender) {
		c.Reply(c.Localize("federationJoinOnlyAdminError"))
		return nil
	}

	err := c.InternalEngine().LeaveFederation(c)
	switch {
	case errors.Is(err, store.ErrNoFederation):
		c.Reply(c.Localize("federationLeaveNoFederationError"))
		return nil
	case err != nil:
		c.Reply(c.Localize("federationLeaveError"))
		return err
	}
	c.Reply(c.Localize("federationLeaveSuccess"))
	return nil
}
