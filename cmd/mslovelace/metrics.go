package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var updatesReceived = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mslovelace_updates_received",
	Help: "Number of webhook updates received",
})

var updatesFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mslovelace_updates_failed",
	Help: "Number of webhook updates that could not be processed",
})
