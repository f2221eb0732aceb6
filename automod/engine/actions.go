package engine

// Action execution modes.
const (
	// ModeSync actions complete (or fail) before the next action starts.
	ModeSync = "sync"
	// ModeFireAndForget actions are started but never awaited by the chain.
	ModeFireAndForget = "fire-and-forget"
)

type ActionFunc = func(c *Context) error

// Action is one stateless policy unit, bound to a Context at run time.
type Action struct {
	Name string
	Mode string
	Run  ActionFunc
}

// ActionSet holds the configured action list. The list order is the only
// ordering guarantee the pipeline makes.
type ActionSet struct {
	Actions []Action
}

// Run executes the actions in list order against one Context.
//
// A failing sync action is logged and the chain continues: one misbehaving
// policy unit must not suppress unrelated policy units. The exception is an
// action that also raised the terminal flag, which stops dispatch of the
// remaining actions. Fire-and-forget failures are only ever logged.
func (s *ActionSet) Run(c *Context) {
	for _, a := range s.Actions {
		if c.Terminated() {
			return
		}
		switch a.Mode {
		case ModeFireAndForget:
			go func(a Action) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("action execution exception", "action", a.Name, "err", r)
					}
				}()
				if err := a.Run(c); err != nil {
					c.Logger.Error("action failed", "action", a.Name, "err", err)
					actionErrorCount.WithLabelValues(a.Name).Inc()
				}
			}(a)
		default:
			if err := a.Run(c); err != nil {
				c.Logger.Error("action failed", "action", a.Name, "err", err)
				actionErrorCount.WithLabelValues(a.Name).Inc()
			}
		}
	}
}
