package http

import (
	"net/http"

	"ugeco-backoffice/internal/service"
)

type UserHandler struct {
	userSvc   service.UserService
	validator *Validator
}

func NewUserHandler(userSvc service.UserService, validator *Validator) *UserHandler {
	return &UserHandler{userSvc: userSvc, validator: validator}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.UserInput
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	users, err := h.userSvc.FindAll(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	users, err := h.userSvc.FindArchived(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.userSvc.FindOne(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	var in service.UserPatch
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.Update(r.Context(), caller, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.SelfPatch
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.UpdateSelf(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Archive answers DELETE /users/{id}; accounts are never hard-deleted.
func (h *UserHandler) Archive(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.userSvc.Archive(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User archived"})
}

func (h *UserHandler) Restore(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.userSvc.Restore(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User restored"})
}
