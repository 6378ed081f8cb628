package server

import (
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reports"
)

func (s *Server) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	year, err := s.yearParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildProfitAndLoss(run.Book, year))
}

func (s *Server) vat(w http.ResponseWriter, r *http.Request) {
	year, err := s.yearParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildVAT(run.Book, year))
}

func (s *Server) cashFlow(w http.ResponseWriter, r *http.Request) {
	year, err := s.yearParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	period := reports.Year(year)
	if period.From, err = dateParam(r, "from", period.From); err != nil {
		s.fail(w, err)
		return
	}
	if period.To, err = dateParam(r, "to", period.To); err != nil {
		s.fail(w, err)
		return
	}
	if period.To.Before(period.From) {
		s.fail(w, badRequest{msg: "to is before from"})
		return
	}

	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildCashFlow(run.Book, s.project.Chart, period, s.project.Activities()))
}

func (s *Server) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := dateParam(r, "as_of", s.today())
	if err != nil {
		s.fail(w, err)
		return
	}
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildBalanceSheet(run.Book, run.Normalizer, s.project.BalanceSheetInput(run, asOf)))
}

func (s *Server) fxGainLoss(w http.ResponseWriter, r *http.Request) {
	asOf, err := dateParam(r, "as_of", s.today())
	if err != nil {
		s.fail(w, err)
		return
	}
	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildFxGainLoss(run.Book, run.Normalizer, s.project.Precision, asOf))
}

func (s *Server) statement(w http.ResponseWriter, r *http.Request) {
	side, err := reports.ParsePartySide(chi.URLParam(r, "side"))
	if err != nil {
		s.fail(w, badRequest{msg: err.Error()})
		return
	}
	var period reports.Period
	if period.From, err = dateParam(r, "from", civil.Date{}); err != nil {
		s.fail(w, err)
		return
	}
	if period.To, err = dateParam(r, "to", civil.Date{}); err != nil {
		s.fail(w, err)
		return
	}
	if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
		s.fail(w, badRequest{msg: "to is before from"})
		return
	}

	run, err := s.project.Run(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	st := run.Statement(side, chi.URLParam(r, "id"), period)
	if st.Lines == nil {
		st.Lines = []reports.StatementLine{}
	}
	if st.Totals == nil {
		st.Totals = []reports.StatementTotal{}
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return s.today().Year, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, badRequest{msg: fmt.Sprintf("invalid year %q", raw)}
	}
	return year, nil
}

func dateParam(r *http.Request, name string, def civil.Date) (civil.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return civil.Date{}, badRequest{msg: fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return d, nil
}
