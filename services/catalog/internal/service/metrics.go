package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "catalog_sessions_created_total",
	Help: "Total number of shopping sessions minted",
})
