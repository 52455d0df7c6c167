package handlers

import (
	"net/http"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

func (h *AdminHandler) ListMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.adminService.ListMoves(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"moves": moves}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddMove records a mid-season division change for a team.
func (h *AdminHandler) AddMove(w http.ResponseWriter, r *http.Request) {
	var input services.DivisionMoveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	move, err := h.adminService.AddMove(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"move": move}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteMove(w http.ResponseWriter, r *http.Request) {
	moveID, err := getIDFromURL(r, "moveID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteMove(r.Context(), moveID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SuggestPairings returns a round-robin rotation for a division as a
// booking aid.
func (h *AdminHandler) SuggestPairings(w http.ResponseWriter, r *http.Request) {
	division, err := models.ParseDivision(r.URL.Query().Get("division"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	startWeek := 1
	if startWeekStr := r.URL.Query().Get("start_week"); startWeekStr != "" {
		startWeek, err = parsePositiveInt(startWeekStr, "start_week")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	weeks := 0
	if weeksStr := r.URL.Query().Get("weeks"); weeksStr != "" {
		weeks, err = parsePositiveInt(weeksStr, "weeks")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	pairings, err := h.adminService.SuggestPairings(r.Context(), division, startWeek, weeks)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"pairings": pairings}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetBaseline(w http.ResponseWriter, r *http.Request) {
	rows, err := h.adminService.ListBaseline(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"baseline": rows}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplaceBaseline swaps the carried-over standings table wholesale.
func (h *AdminHandler) ReplaceBaseline(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Rows []services.BaselineInput `json:"rows"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.adminService.ReplaceBaseline(r.Context(), input.Rows)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"baseline": rows}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.adminService.Settings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"settings": settings}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetCurrentWeek advances (or rewinds) the week the site highlights.
func (h *AdminHandler) SetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Week int `json:"week"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.adminService.SetCurrentWeek(r.Context(), input.Week)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"settings": settings}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListPhotoAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.ListPhotoAdmins(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"photo_admins": admins}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) AddPhotoAdmin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlayerName string `json:"player_name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	admin, err := h.adminService.AddPhotoAdmin(r.Context(), sessionFromRequest(r), input.PlayerName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"photo_admin": admin}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) RemovePhotoAdmin(w http.ResponseWriter, r *http.Request) {
	adminID, err := getIDFromURL(r, "photoAdminID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.RemovePhotoAdmin(r.Context(), adminID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
