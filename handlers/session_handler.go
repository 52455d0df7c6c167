package handlers

import (
	"net/http"

	"github.com/courtside/league-system/middleware"
	"github.com/courtside/league-system/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// StartSession issues a fresh anonymous session token. Clients call this once
// and keep the token in local storage. An optional JSON body sets the display
// name and team straight away.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var input services.IdentityInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	session, token, err := h.sessionService.Start(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if input.Name != "" || input.Team != "" {
		session, token, err = h.sessionService.UpdateIdentity(r.Context(), *session, input)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}

	response := jsonResponse{
		"session": session,
		"token":   token,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "a session token is required")
		return
	}

	response := jsonResponse{"session": session}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateIdentity sets the display name and team on the current session and
// returns a re-minted token carrying the new identity.
func (h *SessionHandler) UpdateIdentity(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "a session token is required")
		return
	}

	var input services.IdentityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, token, err := h.sessionService.UpdateIdentity(r.Context(), session, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"session": updated,
		"token":   token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ElevateAdmin upgrades the current session to admin given the league
// passcode.
func (h *SessionHandler) ElevateAdmin(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "a session token is required")
		return
	}

	var input struct {
		Passcode string `json:"passcode"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, token, err := h.sessionService.ElevateAdmin(r.Context(), session, input.Passcode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"session": updated,
		"token":   token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
