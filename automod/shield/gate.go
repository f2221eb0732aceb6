// Anti-spam shield gate: a global, cross-chat registry of flagged users,
// backed by the local shield store with an external reputation fallback.
package shield

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// Sources recorded on shield entries, and reported by Gate.Check.
const (
	SourceShield = "shield"
	SourceCAS    = "cas"
)

// Reputation is the external lookup consulted on a local shield miss.
type Reputation interface {
	Check(ctx context.Context, userID int64) (bool, error)
}

type Gate struct {
	Logger *slog.Logger
	Store  *store.Store
	CAS    Reputation
}

// Check reports whether the user is a known spammer, and the source of the
// verdict (SourceShield or SourceCAS).
//
// A local shield entry short-circuits: no external lookup is made. Otherwise
// one reputation lookup runs; a positive hit is recorded in the shield store
// so subsequent checks in any chat stay local. Lookup failures are logged
// and treated as a negative result: a transport error must never itself
// cause a ban.
func (g *Gate) Check(ctx context.Context, user telegram.User) (bool, string) {
	entry, err := g.Store.GetShieldEntry(ctx, user.ID, user.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		g.Logger.Error("shield store lookup failed", "err", err, "user", user.ID)
		return false, ""
	}
	if entry != nil {
		shieldHitCount.WithLabelValues(SourceShield).Inc()
		return true, SourceShield
	}

	flagged, err := g.CAS.Check(ctx, user.ID)
	if err != nil {
		// fail-open
		g.Logger.Warn("cas lookup failed", "err", err, "user", user.ID)
		return false, ""
	}
	if !flagged {
		return false, ""
	}

	if err := g.Store.UpsertShieldEntry(ctx, user.ID, user.Username, SourceCAS); err != nil {
		g.Logger.Error("recording shield entry failed", "err", err, "user", user.ID)
	}
	shieldHitCount.WithLabelValues(SourceCAS).Inc()
	return true, SourceCAS
}
