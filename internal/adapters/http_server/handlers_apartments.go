package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"santatecla_living/internal/app"
	"santatecla_living/internal/domain"
)

func (h *Handlers) listApartments(w http.ResponseWriter, r *http.Request) {
	order, ok := domain.ParseListOrder(r.URL.Query().Get("order"))
	if !ok {
		writeError(w, http.StatusBadRequest, "order must be one of date_asc, date_desc, alpha_asc, alpha_desc")
		return
	}
	locale := r.URL.Query().Get("locale")
	if locale != "en" {
		locale = "it"
	}
	out, err := h.Q.ListApartments(r.Context(), domain.ApartmentsQuery{Order: order, Locale: locale})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getApartment(w http.ResponseWriter, r *http.Request) {
	a, err := h.Q.GetApartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) createApartment(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	f, err := app.DecodeApartmentForm(form)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	a, err := h.C.CreateApartment(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) updateApartment(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	f, err := app.DecodeApartmentForm(form)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	a, err := h.C.UpdateApartment(r.Context(), chi.URLParam(r, "id"), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) deleteApartment(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteApartment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
