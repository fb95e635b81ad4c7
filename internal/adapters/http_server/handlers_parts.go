package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"santatecla_living/internal/app"
	"santatecla_living/internal/domain"
)

func (h *Handlers) listParts(w http.ResponseWriter, r *http.Request) {
	q := domain.PartsQuery{
		Page: r.URL.Query().Get("page"),
		Key:  r.URL.Query().Get("key"),
	}
	if raw, present := r.URL.Query()["parentId"]; present && len(raw) > 0 {
		switch raw[0] {
		case "null", "none", "":
			q.Parent = &domain.ParentFilter{}
		default:
			oid, err := primitive.ObjectIDFromHex(raw[0])
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid parentId")
				return
			}
			q.Parent = &domain.ParentFilter{ID: &oid}
		}
	}
	out, err := h.Q.ListParts(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getPart(w http.ResponseWriter, r *http.Request) {
	p, err := h.Q.GetPart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) createPart(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := h.C.CreatePart(r.Context(), app.DecodePartForm(form))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) updatePart(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := h.C.UpdatePart(r.Context(), chi.URLParam(r, "id"), app.DecodePartForm(form))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deletePart(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeletePart(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
