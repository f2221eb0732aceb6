// The fixed action list run against every normalized event, in order. Each
// action is independent: it filters event kinds itself and its failure never
// suppresses the actions after it.
package actions

import (
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
)

func DefaultActions() engine.ActionSet {
	return engine.ActionSet{
		Actions: []engine.Action{
			{Name: "ada-shield", Mode: engine.ModeSync, Run: AdaShieldAction},
			{Name: "save-member", Mode: engine.ModeSync, Run: SaveMemberAction},
			{Name: "blocked-terms", Mode: engine.ModeSync, Run: BlockedTermsAction},
			{Name: "greetings", Mode: engine.ModeFireAndForget, Run: GreetingsAction},
		},
	}
}
