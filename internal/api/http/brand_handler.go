package http

import (
	"context"
	"net/http"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/service"
)

type assignPackageRequest struct {
	Package int32 `json:"package" validate:"required,gt=0"`
}

type BrandHandler struct {
	brandSvc  service.BrandService
	userSvc   service.UserService
	validator *Validator
}

func NewBrandHandler(brandSvc service.BrandService, userSvc service.UserService, validator *Validator) *BrandHandler {
	return &BrandHandler{brandSvc: brandSvc, userSvc: userSvc, validator: validator}
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var in service.BrandInput
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	brand, err := h.brandSvc.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, brand)
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.brandSvc.FindAllForUser)
}

func (h *BrandHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.brandSvc.FindArchived)
}

func (h *BrandHandler) list(w http.ResponseWriter, r *http.Request, find func(ctx context.Context, caller domain.Principal) ([]domain.Brand, error)) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	brands, err := find(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	brand, err := h.brandSvc.FindOneForUser(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

// Update is the administrative edit.
func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.brandSvc.Update)
}

// UpdateSettings is the brand manager's edit of their own brand.
func (h *BrandHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.brandSvc.UpdateForUser)
}

func (h *BrandHandler) update(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, caller domain.Principal, id int32, in service.BrandPatch) (*domain.Brand, error)) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	var in service.BrandPatch
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	brand, err := apply(r.Context(), caller, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) AssignPackage(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	var req assignPackageRequest
	if err := h.validator.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	brand, err := h.brandSvc.AssignPackage(r.Context(), caller, id, req.Package)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) Archive(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.brandSvc.Archive(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Brand archived"})
}

func (h *BrandHandler) Restore(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.brandSvc.Restore(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Brand restored"})
}

func (h *BrandHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	users, err := h.userSvc.GetBrandManagersByBrand(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *BrandHandler) AddManager(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	var in service.BrandManagerInput
	if err := h.validator.decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.CreateBrandManager(r.Context(), caller, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *BrandHandler) RemoveManager(w http.ResponseWriter, r *http.Request) {
	caller, brandID, ok := callerAndID(w, r, "id")
	if !ok {
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.userSvc.RemoveBrandAccess(r.Context(), caller, brandID, userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
