package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleandrojr/mslovelace-bot/telegram"
)

func commandContext(t *testing.T, eng *Engine, text string) *Context {
	t.Helper()
	c, err := NewContext(context.Background(), eng, &telegram.Update{
		Message: &telegram.Message{
			MessageID: 1,
			Chat:      telegram.Chat{ID: -100600, Type: "supergroup"},
			From:      &telegram.User{ID: 42, FirstName: "ada"},
			Text:      text,
		},
	})
	require.NoError(t, err)
	return c
}

func TestNewCommandValidation(t *testing.T) {
	noop := func(c *Context, inv *Invocation) error { return nil }

	_, err := NewCommand(nil, map[string]HandlerFunc{IndexHandler: noop})
	assert.Error(t, err)

	_, err = NewCommand([]telegram.BotCommand{{Command: "x"}}, map[string]HandlerFunc{})
	assert.Error(t, err)

	_, err = NewCommand([]telegram.BotCommand{{Command: "x"}}, map[string]HandlerFunc{
		IndexHandler: noop,
		"sub":        nil,
	})
	assert.Error(t, err)

	_, err = NewCommand([]telegram.BotCommand{{Command: "x"}}, map[string]HandlerFunc{IndexHandler: noop})
	assert.NoError(t, err)
}

func TestCommandSetRegisterDuplicate(t *testing.T) {
	noop := func(c *Context, inv *Invocation) error { return nil }
	cmd := MustCommand([]telegram.BotCommand{{Command: "dup"}}, map[string]HandlerFunc{IndexHandler: noop})
	other := MustCommand([]telegram.BotCommand{{Command: "dup"}}, map[string]HandlerFunc{IndexHandler: noop})

	var s CommandSet
	require.NoError(t, s.Register(cmd))
	assert.Error(t, s.Register(other))
}

func TestCommandDispatch(t *testing.T) {
	eng, _ := EngineTestFixture(t)
	eng.Username = "lovelace_bot"

	var invocations []Invocation
	record := func(tag string) HandlerFunc {
		return func(c *Context, inv *Invocation) error {
			invocations = append(invocations, Invocation{Trigger: tag, Args: inv.Args})
			return nil
		}
	}

	var s CommandSet
	require.NoError(t, s.Register(MustCommand(
		[]telegram.BotCommand{{Command: "thing"}},
		map[string]HandlerFunc{
			IndexHandler: record("index"),
			"add":        record("add"),
		},
	)))

	// bare trigger goes to the index handler
	s.Dispatch(commandContext(t, eng, "/thing"))
	require.Len(t, invocations, 1)
	assert.Equal(t, "index", invocations[0].Trigger)

	// a declared first parameter selects its handler and is consumed
	s.Dispatch(commandContext(t, eng, "/thing add foo bar"))
	require.Len(t, invocations, 2)
	assert.Equal(t, "add", invocations[1].Trigger)
	assert.Equal(t, []string{"foo", "bar"}, invocations[1].Args)

	// an undeclared first parameter falls back to index with all args
	s.Dispatch(commandContext(t, eng, "/thing frob foo"))
	require.Len(t, invocations, 3)
	assert.Equal(t, "index", invocations[2].Trigger)
	assert.Equal(t, []string{"frob", "foo"}, invocations[2].Args)

	// addressed forms: ours is handled, another bot's is not
	s.Dispatch(commandContext(t, eng, "/thing@lovelace_bot"))
	assert.Len(t, invocations, 4)
	s.Dispatch(commandContext(t, eng, "/thing@other_bot"))
	assert.Len(t, invocations, 4)

	// unknown triggers and plain text are silently ignored
	s.Dispatch(commandContext(t, eng, "/unknown"))
	s.Dispatch(commandContext(t, eng, "just chatting"))
	assert.Len(t, invocations, 4)
}

func TestCallbackDispatch(t *testing.T) {
	eng, _ := EngineTestFixture(t)

	var got []string
	var s CallbackSet
	require.NoError(t, s.Register("warning", func(c *Context, data *CallbackData) error {
		got = append(got, data.Data)
		return nil
	}))

	cbContext := func(data string) *Context {
		c, err := NewContext(context.Background(), eng, &telegram.Update{
			CallbackQuery: &telegram.CallbackQuery{
				ID:      "cb",
				From:    telegram.User{ID: 42},
				Message: &telegram.Message{MessageID: 1, Chat: telegram.Chat{ID: 5, Type: "group"}},
				Data:    data,
			},
		})
		require.NoError(t, err)
		return c
	}

	s.Dispatch(cbContext(`{"c":"warning","d":"1,2,3"}`))
	assert.Equal(t, []string{"1,2,3"}, got)

	// unknown names and undecodable payloads are ignored
	s.Dispatch(cbContext(`{"c":"nope","d":""}`))
	s.Dispatch(cbContext(`not json`))
	assert.Len(t, got, 1)
}
