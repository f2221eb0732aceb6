// Static command and callback registration tables. The daemon wires these
// into the engine; tests register subsets directly.
package commands

import (
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
)

func DefaultCommands() engine.CommandSet {
	var s engine.CommandSet
	err := s.Register(
		AdaShieldCommand,
		BanCommand,
		SilentBanCommand,
		DeleteBanCommand,
		SilentDeleteBanCommand,
		BlockedTermsCommand,
		FederationCommand,
		GetUserLinkCommand,
		GreetingsCommand,
		WarnCommand,
		DelWarnCommand,
	)
	if err != nil {
		panic(err)
	}
	return s
}

func DefaultCallbacks() engine.CallbackSet {
	var s engine.CallbackSet
	if err := s.Register("warning", WarningRemovalCallback); err != nil {
		panic(err)
	}
	return s
}
