package engine

import (
	"fmt"
	"strconv"

	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// Moderation state transitions. All writes go through the store as upserts
// keyed on natural keys, so concurrent runs for the same (user, chat) pair
// converge; outbound API calls are logged-on-failure and never gate the
// persisted moderation record.

// RecordJoin upserts the member relation for the event's chat. On first
// creation the checked flag starts true unless the chat requires
// verification; repeated joins only refresh joined/last_seen.
func (eng *Engine) RecordJoin(c *Context, user telegram.User) error {
	urow, err := eng.Store.UpsertUser(c.Ctx, user)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	crow, err := eng.Store.UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return fmt.Errorf("upserting chat: %w", err)
	}
	checked := crow.Config == nil || !crow.Config.Captcha
	return eng.Store.RecordJoin(c.Ctx, urow.ID, crow.ID, checked)
}

// WarningState is the outcome of an AddWarning transition.
type WarningState struct {
	Warnings []store.Warning
	Limit    int
	Banned   bool
	// Refusal is a message key when the warning was refused (admin or self
	// target); nothing was written in that case.
	Refusal string
}

// AddWarning appends a warning for the target in the event's chat.
// Administrators and the bot's own account are refused. Once the warning
// count reaches the chat's limit, exactly one ban fires; calls after that
// are no-ops returning the current state.
func (eng *Engine) AddWarning(c *Context, target telegram.User, reason string) (*WarningState, error) {
	if c.IsSelf(target) {
		return &WarningState{Refusal: "selfWarnMessage"}, nil
	}
	if c.IsAdmin(target) {
		return &WarningState{Refusal: "adminWarnMessage"}, nil
	}

	urow, err := eng.Store.UpsertUser(c.Ctx, target)
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	crow, err := eng.Store.UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return nil, fmt.Errorf("upserting chat: %w", err)
	}

	state := &WarningState{Limit: crow.WarningLimit()}

	banned, err := eng.Store.IsBanned(c.Ctx, urow.ID, crow.ID, crow.FederationID)
	if err != nil {
		return nil, fmt.Errorf("checking ban state: %w", err)
	}
	if banned {
		// banned is terminal: the warning write is rejected as a no-op
		state.Banned = true
		state.Warnings, _ = eng.Store.ListWarnings(c.Ctx, urow.ID, crow.ID)
		return state, nil
	}

	if _, err := eng.Store.AddWarning(c.Ctx, urow.ID, crow.ID, reason); err != nil {
		return nil, fmt.Errorf("adding warning: %w", err)
	}
	warningCount.Inc()

	state.Warnings, err = eng.Store.ListWarnings(c.Ctx, urow.ID, crow.ID)
	if err != nil {
		return nil, fmt.Errorf("listing warnings: %w", err)
	}

	if len(state.Warnings) >= state.Limit {
		if err := eng.Ban(c, target, reason); err != nil {
			return nil, err
		}
		state.Banned = true
	}
	return state, nil
}

// Ban persists a ban record for the target, scoped to the event's chat or
// to the chat's federation when one is set (propagating the ban to every
// chat sharing it), then issues the outbound removal call. The record is
// written even when the outbound call fails.
func (eng *Engine) Ban(c *Context, target telegram.User, reason string) error {
	urow, err := eng.Store.UpsertUser(c.Ctx, target)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	crow, err := eng.Store.UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return fmt.Errorf("upserting chat: %w", err)
	}

	if err := eng.Store.CreateBan(c.Ctx, urow.ID, crow.ID, crow.FederationID, reason); err != nil {
		return fmt.Errorf("recording ban: %w", err)
	}
	banCount.Inc()

	if err := eng.API.BanChatMember(c.Ctx, c.Chat.ID, target.ID); err != nil {
		c.Logger.Error("ban call failed", "err", err, "target", target.ID)
	}
	return nil
}

// Mute restricts the target to a read-only permission set.
func (eng *Engine) Mute(c *Context, target telegram.User) {
	if err := eng.API.RestrictChatMember(c.Ctx, c.Chat.ID, target.ID, telegram.ChatPermissions{}); err != nil {
		c.Logger.Error("mute call failed", "err", err, "target", target.ID)
	}
}

// ApplyBlockedTerm handles one matched blocked term: delete the offending
// message, then perform exactly one of mute, ban, or warn. Ban, and a warn
// that reached the threshold, raise the terminal flag so no further blocked
// terms are evaluated against the same message.
func (eng *Engine) ApplyBlockedTerm(c *Context, term store.BlockedTerm) error {
	target := c.ActingUser()
	if target == nil {
		return nil
	}

	c.DeleteMessage()

	switch term.Action {
	case store.TermActionMute:
		eng.Mute(c, *target)
	case store.TermActionBan:
		if err := eng.Ban(c, *target, c.Localize("warnBlockedTerm")); err != nil {
			return err
		}
		c.Terminate()
	case store.TermActionWarn:
		state, err := eng.AddWarning(c, *target, c.Localize("warnBlockedTerm"))
		if err != nil {
			return err
		}
		if state.Refusal == "" {
			text, markup := WarningReport(c, *target, state)
			c.Send(text, markup)
		}
		if state.Banned {
			c.Terminate()
		}
	default:
		c.Logger.Warn("unrecognized blocked term action", "action", term.Action, "term", term.ID)
	}
	return nil
}

// JoinFederation attaches the event's chat to the federation with the given
// hash. Surfaces store.ErrNotFound for a bad hash and
// store.ErrAlreadyInFederation when the chat already belongs to one.
func (eng *Engine) JoinFederation(c *Context, hash string) (*store.Federation, error) {
	crow, err := eng.Store.UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return nil, fmt.Errorf("upserting chat: %w", err)
	}
	fed, err := eng.Store.GetFederationByHash(c.Ctx, hash)
	if err != nil {
		return nil, err
	}
	if err := eng.Store.JoinFederation(c.Ctx, crow.ID, fed.ID); err != nil {
		return nil, err
	}
	return fed, nil
}

// LeaveFederation detaches the event's chat from its federation, surfacing
// store.ErrNoFederation when none is set.
func (eng *Engine) LeaveFederation(c *Context) error {
	crow, err := eng.Store.UpsertChat(c.Ctx, c.Chat)
	if err != nil {
		return fmt.Errorf("upserting chat: %w", err)
	}
	return eng.Store.LeaveFederation(c.Ctx, crow.ID)
}

// WarningReport renders the localized warning summary for a user, with
// removal buttons for chat admins when warnings remain.
func WarningReport(c *Context, target telegram.User, state *WarningState) (string, *telegram.InlineKeyboardMarkup) {
	key := "warningPluralMessage"
	switch {
	case state.Banned || len(state.Warnings) >= state.Limit:
		key = "warningBanMessage"
	case len(state.Warnings) == 1:
		key = "warningSingleMessage"
	case len(state.Warnings) == 0:
		key = "warningNoneMessage"
	}

	text := c.Localize(key,
		"userid", strconv.FormatInt(target.ID, 10),
		"username", target.DisplayName(),
		"warnings", fmt.Sprintf("%d/%d", len(state.Warnings), state.Limit),
	)
	for _, w := range state.Warnings {
		text += fmt.Sprintf(" • %s\n", w.Reason)
	}

	if len(state.Warnings) == 0 || state.Banned {
		return text, nil
	}

	last := state.Warnings[len(state.Warnings)-1]
	lastButton := telegram.InlineKeyboardButton{
		Text: c.Localize("lastWarningRemovalButton"),
		CallbackData: encodeCallback("warning",
			fmt.Sprintf("%d,%d,%d", target.ID, c.Chat.ID, last.ID)),
	}
	allButton := telegram.InlineKeyboardButton{
		Text: c.Localize("warningsRemovalButton"),
		CallbackData: encodeCallback("warning",
			fmt.Sprintf("%d,%d", target.ID, c.Chat.ID)),
	}
	markup := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{lastButton}, {allButton}},
	}
	return text, markup
}

func encodeCallback(name, data string) string {
	return fmt.Sprintf(`{"c":%q,"d":%q}`, name, data)
}
