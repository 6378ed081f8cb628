package server

import (
	"fmt"
	"net/http"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func (s *Server) ledger(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	entries := ledger.BuildLedger(run.Book, account)
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account": account,
		"base":    run.Book.Base,
		"entries": entries,
	})
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger.BuildTrialBalance(run.Book, s.project.Chart))
}

func (s *Server) balances(w http.ResponseWriter, r *http.Request) {
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	balances := ledger.BalancesByCurrency(run.Book, s.project.Chart)
	if balances == nil {
		balances = []ledger.CurrencyBalance{}
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) issues(w http.ResponseWriter, r *http.Request) {
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	issues := run.Book.Issues
	if issues == nil {
		issues = ledger.Issues{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"issues":   issues,
		"excluded": issues.Excluded(),
	})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	violations := ledger.Validate(run.Book, s.project.Chart)
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":      len(out) == 0,
		"violations": out,
	})
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		writeJSON(w, http.StatusOK, s.project.Chart.All())
		return
	}
	t := model.AccountType(raw)
	if !t.Valid() {
		s.fail(w, badRequest{msg: fmt.Sprintf("invalid type %q", raw)})
		return
	}
	accts := s.project.Chart.ByType(t)
	if accts == nil {
		accts = []model.Account{}
	}
	writeJSON(w, http.StatusOK, accts)
}

func (s *Server) rateAge(w http.ResponseWriter, r *http.Request) {
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.project.RateAge(run, s.today()))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := mapError(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, err.Error())
}
