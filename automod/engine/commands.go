package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// IndexHandler is the default handler key: invoked when a command has no
// parameters, or when the first parameter is not in the declared set.
const IndexHandler = "index"

type HandlerFunc = func(c *Context, inv *Invocation) error

// Invocation carries the parsed command trigger and its parameters. When a
// declared parameter selected the handler, Args holds the tokens after it.
type Invocation struct {
	Trigger string
	Args    []string
}

// Command is registered under one or more triggers and resolves handlers
// through an explicit token map, validated at registration time, so an
// unknown token can never resolve to anything but the index handler.
type Command struct {
	commands []telegram.BotCommand
	handlers map[string]HandlerFunc
}

func NewCommand(commands []telegram.BotCommand, handlers map[string]HandlerFunc) (*Command, error) {
	if len(commands) == 0 {
		return nil, fmt.Errorf("command must declare at least one trigger")
	}
	for _, bc := range commands {
		if bc.Command == "" {
			return nil, fmt.Errorf("command trigger must not be empty")
		}
	}
	if handlers[IndexHandler] == nil {
		return nil, fmt.Errorf("command %q must declare an index handler", commands[0].Command)
	}
	for tok, h := range handlers {
		if tok == "" || h == nil {
			return nil, fmt.Errorf("command %q has an invalid handler entry", commands[0].Command)
		}
	}
	return &Command{commands: commands, handlers: handlers}, nil
}

// MustCommand is for static command tables, where a registration error is a
// programming mistake.
func MustCommand(commands []telegram.BotCommand, handlers map[string]HandlerFunc) *Command {
	cmd, err := NewCommand(commands, handlers)
	if err != nil {
		panic(err)
	}
	return cmd
}

func (cmd *Command) BotCommands() []telegram.BotCommand {
	return cmd.commands
}

// CommandSet resolves message text to registered commands. Configured once
// at startup; safe for concurrent dispatch afterwards.
type CommandSet struct {
	byTrigger map[string]*Command
	list      []*Command
}

func (s *CommandSet) Register(cmds ...*Command) error {
	if s.byTrigger == nil {
		s.byTrigger = make(map[string]*Command)
	}
	for _, cmd := range cmds {
		for _, bc := range cmd.commands {
			trigger := strings.ToLower(bc.Command)
			if _, dup := s.byTrigger[trigger]; dup {
				return fmt.Errorf("duplicate command trigger: %s", trigger)
			}
			s.byTrigger[trigger] = cmd
		}
		s.list = append(s.list, cmd)
	}
	return nil
}

// BotCommands returns the full registration table, for setMyCommands.
func (s *CommandSet) BotCommands() []telegram.BotCommand {
	var out []telegram.BotCommand
	for _, cmd := range s.list {
		out = append(out, cmd.commands...)
	}
	return out
}

// Dispatch parses the event's message text and invokes the matching command
// handler. Unrecognized triggers are ordinary chat content, not errors.
func (s *CommandSet) Dispatch(c *Context) {
	if c.Message == nil || !strings.HasPrefix(c.Message.Text, "/") {
		return
	}

	fields := strings.Fields(c.Message.Text)
	trigger := strings.TrimPrefix(fields[0], "/")
	trigger, mention, _ := strings.Cut(trigger, "@")
	trigger = strings.ToLower(trigger)

	// a command addressed to another bot is not ours to handle
	if mention != "" && c.engine.Username != "" && !strings.EqualFold(mention, c.engine.Username) {
		return
	}

	cmd, ok := s.byTrigger[trigger]
	if !ok {
		return
	}

	args := fields[1:]
	handler := cmd.handlers[IndexHandler]
	if len(args) > 0 {
		if h, ok := cmd.handlers[strings.ToLower(args[0])]; ok {
			handler = h
			args = args[1:]
		}
	}

	commandCount.WithLabelValues(trigger).Inc()
	if err := handler(c, &Invocation{Trigger: trigger, Args: args}); err != nil {
		c.Logger.Error("command failed", "command", trigger, "err", err)
		commandErrorCount.WithLabelValues(trigger).Inc()
	}
}

// CallbackData is the payload encoded in inline keyboard buttons: "c" names
// the registered callback, "d" is handler-specific data.
type CallbackData struct {
	Callback string `json:"c"`
	Data     string `json:"d"`
}

type CallbackFunc = func(c *Context, data *CallbackData) error

type CallbackSet struct {
	byName map[string]CallbackFunc
}

func (s *CallbackSet) Register(name string, fn CallbackFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("invalid callback registration")
	}
	if s.byName == nil {
		s.byName = make(map[string]CallbackFunc)
	}
	if _, dup := s.byName[name]; dup {
		return fmt.Errorf("duplicate callback name: %s", name)
	}
	s.byName[name] = fn
	return nil
}

// Dispatch decodes the callback payload and invokes its handler. Unknown or
// malformed payloads are ignored: buttons may outlive handler registrations.
func (s *CallbackSet) Dispatch(c *Context) {
	if c.Callback == nil {
		return
	}
	var data CallbackData
	if err := json.Unmarshal([]byte(c.Callback.Data), &data); err != nil {
		c.Logger.Debug("ignoring undecodable callback", "err", err)
		return
	}
	fn, ok := s.byName[data.Callback]
	if !ok {
		return
	}
	if err := fn(c, &data); err != nil {
		c.Logger.Error("callback failed", "callback", data.Callback, "err", err)
	}
}
