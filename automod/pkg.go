package automod

import (
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
)

type Engine = engine.Engine
type ChatAPI = engine.ChatAPI
type Context = engine.Context

type Action = engine.Action
type ActionSet = engine.ActionSet
type ActionFunc = engine.ActionFunc

type Command = engine.Command
type CommandSet = engine.CommandSet
type HandlerFunc = engine.HandlerFunc
type Invocation = engine.Invocation
type CallbackData = engine.CallbackData
type CallbackSet = engine.CallbackSet

type WarningState = engine.WarningState

var ErrMalformedEvent = engine.ErrMalformedEvent

const (
	KindMessage     = engine.KindMessage
	KindMemberJoin  = engine.KindMemberJoin
	KindMemberLeave = engine.KindMemberLeave
	KindCallback    = engine.KindCallback
	KindReaction    = engine.KindReaction

	ModeSync          = engine.ModeSync
	ModeFireAndForget = engine.ModeFireAndForget
)
