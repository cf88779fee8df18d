package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/electryonz/internal/config"
	"github.com/zjrosen/electryonz/internal/flags"
	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/registrar"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/tracing"
)

const tracingShutdownTimeout = 5 * time.Second

// services wires the controller to the registration endpoint.
type services struct {
	ctrl    *registration.Controller
	tracing *tracing.Provider
	flags   *flags.Registry
}

func buildServices(cfg config.Config) (*services, error) {
	url, err := cfg.Endpoint.RegisterURL()
	if err != nil {
		return nil, err
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("starting tracing: %w", err)
	}

	client := registrar.New(url,
		registrar.WithTracer(tp.Tracer()),
		registrar.WithTimeout(cfg.Endpoint.Timeout),
	)
	ctrl, err := registration.NewController(cfg.Pricing, client)
	if err != nil {
		shutdownTracing(tp)
		return nil, err
	}

	log.Info(log.CatConfig, "registration endpoint", "url", client.URL(), "tracing", tp.Enabled())
	return &services{
		ctrl:    ctrl,
		tracing: tp,
		flags:   flags.New(cfg.Flags),
	}, nil
}

// Close flushes pending spans.
func (s *services) Close() {
	shutdownTracing(s.tracing)
}

func shutdownTracing(tp *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
	}
}
