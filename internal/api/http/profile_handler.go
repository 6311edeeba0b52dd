package http

import (
	"net/http"

	"ugeco-backoffice/internal/service"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
	validator  *Validator
}

func NewProfileHandler(profileSvc service.ProfileService, validator *Validator) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, validator: validator}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.ProfileInput
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.profileSvc.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.ProfilePatch
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.profileSvc.Update(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	profile, err := h.profileSvc.FindByUser(r.Context(), caller, caller.PrincipalID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	caller, userID, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	profile, err := h.profileSvc.FindByUser(r.Context(), caller, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
