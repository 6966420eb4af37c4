package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on http.DefaultServeMux

	"github.com/the-user01/Study-Platform-Server/apps/api/di"
	echoapi "github.com/the-user01/Study-Platform-Server/apps/api/echo"
	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/services/metrics"
)

func main() {
	c := di.New()

	err := c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		closeLogger di.LoggerCloser,
		closeStore di.StoreCloser,
		m *metrics.Metrics,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		logger.Info("Application initializing", map[string]interface{}{"version": conf.Build, "env": conf.Env})
		defer closeLogger()
		defer func() {
			if err := closeStore(context.Background()); err != nil {
				logger.Error("failed to close store", err)
			}
		}()
		defer logger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.
		// /metrics - Prometheus collectors.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		http.DefaultServeMux.Handle("/metrics", m.Handler())

		go func() {
			logger.Info("debug listening on " + conf.Server.DebugHost)
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error("debug server closed", err)
			}
		}()

		// =========================================================================
		// Start API Service

		go server.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Error("server error", err)

		case sig := <-server.ShutdownSignal():
			logger.Info(sig.String() + ": Start shutdown...")

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error("could not stop server gracefully", err)

				if err = server.Close(); err != nil {
					logger.Error("could not force stop server", err)
				}
			}
		}
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
