package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/service"
)

type OfferHandler struct {
	offerSvc  service.OfferService
	validator *Validator
}

func NewOfferHandler(offerSvc service.OfferService, validator *Validator) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc, validator: validator}
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.OfferInput
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	offer, err := h.offerSvc.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	var in service.OfferPatch
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	offer, err := h.offerSvc.Update(r.Context(), caller, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	offer, err := h.offerSvc.FindOne(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.offerSvc.FindAllForUser)
}

func (h *OfferHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.offerSvc.FindArchived)
}

func (h *OfferHandler) list(w http.ResponseWriter, r *http.Request, find func(ctx context.Context, caller domain.Principal) ([]domain.Offer, error)) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	offers, err := find(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// Filter lists published offers for a creator. Query parameters category,
// target and language may repeat; paidCooperation is true or false.
func (h *OfferHandler) Filter(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	q, err := parseOfferQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Struct(&q); err != nil {
		writeError(w, r, err)
		return
	}
	offers, err := h.offerSvc.FindAllForCreator(r.Context(), caller, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func parseOfferQuery(values url.Values) (service.OfferQuery, error) {
	q := service.OfferQuery{
		Categories: values["category"],
		Targets:    values["target"],
		Languages:  values["language"],
	}
	if raw := values.Get("paidCooperation"); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			return q, &ValidationError{Fields: []FieldError{{Path: "paidCooperation", Message: "must be true or false"}}}
		}
		q.PaidCooperation = &paid
	}
	return q, nil
}

func (h *OfferHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	stats, err := h.offerSvc.Stats(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *OfferHandler) Archive(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.offerSvc.Archive(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Offer archived"})
}

func (h *OfferHandler) Restore(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.offerSvc.Restore(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Offer restored"})
}

func (h *OfferHandler) Remove(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.offerSvc.Remove(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
