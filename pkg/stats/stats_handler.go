package stats

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/internal/utils"
	log "github.com/sirupsen/logrus"
)

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
	clock            utils.Clock
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer, clock utils.Clock) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer, clock}
}

// GetMonthly serves the summary of ?month=&year=, the current month by
// default, as JSON or as CSV when the client accepts text/csv.
func (handler *StatsHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	now := handler.clock.Now()
	query := rest.NewQuery(r)
	month := query.Int("month")
	year := query.Int("year")
	if !query.Valid(w) {
		return
	}
	m, y := int(now.Month()), now.Year()
	if month != nil {
		m = *month
	}
	if year != nil {
		y = *year
	}

	summary, err := handler.statsService.GetMonthlySummary(r.Context(), familyId, m, y)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderSummary(summary)
		if err != nil {
			rest.WriteFailure(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("could not write csv: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, summary)
}
