package httpserver

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"santatecla_living/internal/app"
	"santatecla_living/internal/domain"
)

type chiRouter = chi.Router

type Handlers struct {
	Q   *app.QueryService
	C   *app.ContentService
	Geo domain.Geocoder
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/apartments", func(r chiRouter) {
		r.Get("/", h.listApartments)
		r.Post("/", h.createApartment)
		r.Get("/{id}", h.getApartment)
		r.Put("/{id}", h.updateApartment)
		// POST kept as a PUT alias; the admin forms submit POST
		r.Post("/{id}", h.updateApartment)
		r.Delete("/{id}", h.deleteApartment)
	})

	s.mux.Route("/api/dynamic-parts", func(r chiRouter) {
		r.Get("/", h.listParts)
		r.Post("/", h.createPart)
		r.Get("/{id}", h.getPart)
		r.Post("/{id}", h.updatePart)
		r.Delete("/{id}", h.deletePart)
	})

	s.mux.Get("/api/geocode", h.geocode)
}

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps service errors onto the 400/404/500 taxonomy.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

const maxUploadMemory = 32 << 20

func parseMultipart(r *http.Request) (*multipart.Form, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, domain.ValidationError("expected a multipart form")
	}
	return r.MultipartForm, nil
}

func (h *Handlers) geocode(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 5
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 20 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 20")
			return
		}
		limit = l
	}
	res, err := h.Geo.Search(r.Context(), q, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if res == nil {
		res = []domain.GeoResult{}
	}
	writeJSON(w, http.StatusOK, res)
}
