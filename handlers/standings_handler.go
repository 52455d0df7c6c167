package handlers

import (
	"net/http"

	"github.com/courtside/league-system/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandings returns the computed tables for all three divisions.
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	table, err := h.standingsService.Table(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"standings": table}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
