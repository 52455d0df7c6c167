package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/courtside/league-system/services"
)

const maxPhotoUploadBytes = 15 << 20 // 15MB

type PhotoHandler struct {
	photoService services.PhotoService
}

func NewPhotoHandler(ps services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: ps}
}

// ListFolders returns the photo wall's folder names.
func (h *PhotoHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.photoService.Folders(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"folders": folders}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPhotos returns the photos in the folder named by the folder query
// parameter.
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	if folder == "" {
		badRequestResponse(w, r, errors.New("the folder query parameter is required"))
		return
	}

	photos, err := h.photoService.ListFolder(r.Context(), folder)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"photos": photos}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadPhoto accepts a multipart form with a "folder" value and a "photo"
// file part.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		badRequestResponse(w, r, errors.New("the folder form field is required"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get photo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for photo"))
		return
	}

	photo, err := h.photoService.Upload(r.Context(), sessionFromRequest(r), folder, contentType, header.Size, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"photo": photo}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := getIDFromURL(r, "photoID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.photoService.Delete(r.Context(), sessionFromRequest(r), photoID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOrphans reports stored objects with no matching photo record so an
// admin can clean the bucket up.
func (h *PhotoHandler) ListOrphans(w http.ResponseWriter, r *http.Request) {
	orphans, err := h.photoService.Orphans(r.Context(), sessionFromRequest(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"orphans": orphans}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
