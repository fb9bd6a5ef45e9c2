package handler

import (
	"os"
	"testing"

	"inventario-service/pkg/config"
	"inventario-service/prometheus"
)

func TestMain(m *testing.M) {
	// The handlers record metrics; the vectors must exist before any
	// handler runs.
	cfg := &config.Config{}
	cfg.Metrics.Prefix = "test"
	prometheus.InitMetrics(cfg)

	os.Exit(m.Run())
}
