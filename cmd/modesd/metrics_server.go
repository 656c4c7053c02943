package main

import (
	"net/http"

	"modesd/internal/metrics"
)

func newMetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func serveMetrics(addr string, mux *http.ServeMux) error {
	srv := &http.Server{Addr: addr, Handler: mux}
	return srv.ListenAndServe()
}
