package handlers

import (
	"net/http"

	"github.com/courtside/league-system/services"
)

type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

// ListAttendance returns absence marks, for one week when the week query
// parameter is set, otherwise for the whole season.
func (h *AttendanceHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	weekStr := r.URL.Query().Get("week")
	if weekStr == "" {
		marks, err := h.attendanceService.List(r.Context())
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		response := jsonResponse{"attendance": marks}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	week, err := parsePositiveInt(weekStr, "week")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	marks, err := h.attendanceService.ListWeek(r.Context(), week)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"attendance": marks}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MarkAttendance records or clears an absence for a team in a given week.
func (h *AttendanceHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var input services.AttendanceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	mark, err := h.attendanceService.Mark(r.Context(), sessionFromRequest(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"attendance": mark}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
