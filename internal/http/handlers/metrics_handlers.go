package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Headline totals for today
// @Tags metrics
// @Produce json
// @Success 200 {object} query.Dashboard
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, ledgerSvc.Dashboard())
}
