package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_event_processed",
	Help: "Number of events processed",
}, []string{"kind"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_event_errors",
	Help: "Number of events which failed processing",
}, []string{"reason"})

var actionErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_action_errors",
	Help: "Number of action executions that failed",
}, []string{"action"})

var commandCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_commands_dispatched",
	Help: "Number of commands dispatched",
}, []string{"command"})

var commandErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_command_errors",
	Help: "Number of commands which failed",
}, []string{"command"})

var warningCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_warnings_recorded",
	Help: "Number of warnings persisted",
})

var banCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_bans_recorded",
	Help: "Number of bans persisted",
})
