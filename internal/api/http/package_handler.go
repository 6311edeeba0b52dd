package http

import (
	"net/http"

	"ugeco-backoffice/internal/service"
)

type PackageHandler struct {
	pkgSvc    service.PackageService
	validator *Validator
}

func NewPackageHandler(pkgSvc service.PackageService, validator *Validator) *PackageHandler {
	return &PackageHandler{pkgSvc: pkgSvc, validator: validator}
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.PackageInput
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	pkg, err := h.pkgSvc.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pkg)
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	pkgs, err := h.pkgSvc.List(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg, err := h.pkgSvc.Get(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.PackagePatch
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	pkg, err := h.pkgSvc.Update(r.Context(), caller, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) Remove(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.pkgSvc.Remove(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
