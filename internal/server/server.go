// Package server exposes the derived ledgers and reports as read-only JSON.
// Every request derives from a fresh snapshot.
package server

import (
	"net"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/tally/internal/project"
)

type Server struct {
	project *project.Project
	router  chi.Router
	addr    string
	log     zerolog.Logger
	today   func() civil.Date
}

func New(p *project.Project, addr string, log zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(log))

	s := &Server{project: p, router: r, addr: addr, log: log, today: project.Today}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.version)

		// Ledger
		r.Get("/ledger", s.ledger)
		r.Get("/trial-balance", s.trialBalance)
		r.Get("/balances", s.balances)
		r.Get("/issues", s.issues)
		r.Get("/validate", s.validate)

		// Reference
		r.Get("/chart", s.chart)
		r.Get("/rates/age", s.rateAge)

		// Reports
		r.Get("/reports/pnl", s.profitAndLoss)
		r.Get("/reports/vat", s.vat)
		r.Get("/reports/cash-flow", s.cashFlow)
		r.Get("/reports/balance-sheet", s.balanceSheet)
		r.Get("/reports/fx", s.fxGainLoss)
		r.Get("/statements/{side}/{id}", s.statement)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("tally server listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("tally server listening")
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
