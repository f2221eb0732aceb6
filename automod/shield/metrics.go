package shield

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var shieldHitCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_shield_hits",
	Help: "Number of membership checks flagged as spammers, by verdict source",
}, []string{"source"})
