package http

import (
	"net/http"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/service"

	"github.com/gorilla/mux"
)

// Dependencies is everything the router needs. StaticDir enables serving
// uploads from the local driver.
type Dependencies struct {
	Auth     service.AuthService
	Packages service.PackageService
	Brands   service.BrandService
	Offers   service.OfferService
	Users    service.UserService
	Profiles service.ProfileService

	Tokens TokenValidator
	Files  FileSaver

	MaxUploadBytes int64
	AllowedExts    []string
	StaticDir      string
	CORSOrigin     string
}

var (
	staff        = []domain.Role{domain.RoleAdmin, domain.RoleSubadmin}
	brandEditors = []domain.Role{domain.RoleAdmin, domain.RoleSubadmin, domain.RoleBrandManager}
	adminOnly    = []domain.Role{domain.RoleAdmin}
	creatorOnly  = []domain.Role{domain.RoleCreator}
)

func allow(h http.HandlerFunc, roles ...domain.Role) http.Handler {
	if len(roles) == 0 {
		return h
	}
	return RequireRole(roles...)(h)
}

// NewRouter wires every /api/v1 route. CORS wraps the whole router so
// preflight requests are answered before route matching.
func NewRouter(deps Dependencies) http.Handler {
	validator := NewValidator()
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, domain.NotFound("Route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Kind: "MethodNotAllowed", Message: "Method not allowed"})
	})
	router.Use(RecoverMiddleware, RequestIDMiddleware, LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if deps.StaticDir != "" {
		RegisterStaticRoutes(router, deps.StaticDir)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	authH := NewAuthHandler(deps.Auth, validator)
	api.HandleFunc("/auth/login", authH.SignIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", authH.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password", authH.ResetPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password/{token}", authH.ResetPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/initialize-password", authH.InitializePassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/initialize-password/{token}", authH.InitializePassword).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(NewAuthMiddleware(deps.Tokens).Handler)

	protected.Handle("/auth/me", allow(authH.Me)).Methods(http.MethodGet)
	protected.Handle("/auth/profile", allow(authH.Me)).Methods(http.MethodGet)

	pkgH := NewPackageHandler(deps.Packages, validator)
	protected.Handle("/packages", allow(pkgH.List)).Methods(http.MethodGet)
	protected.Handle("/packages", allow(pkgH.Create, adminOnly...)).Methods(http.MethodPost)
	protected.Handle("/packages/{id}", allow(pkgH.Get)).Methods(http.MethodGet)
	protected.Handle("/packages/{id}", allow(pkgH.Update, adminOnly...)).Methods(http.MethodPatch)
	protected.Handle("/packages/{id}", allow(pkgH.Remove, adminOnly...)).Methods(http.MethodDelete)

	brandH := NewBrandHandler(deps.Brands, deps.Users, validator)
	protected.Handle("/brands", allow(brandH.List, brandEditors...)).Methods(http.MethodGet)
	protected.Handle("/brands", allow(brandH.Create, staff...)).Methods(http.MethodPost)
	protected.Handle("/brands/archived", allow(brandH.ListArchived, adminOnly...)).Methods(http.MethodGet)
	protected.Handle("/brands/settings/{id}", allow(brandH.UpdateSettings, domain.RoleBrandManager)).Methods(http.MethodPatch)
	protected.Handle("/brands/{id}", allow(brandH.Get, brandEditors...)).Methods(http.MethodGet)
	protected.Handle("/brands/{id}", allow(brandH.Update, staff...)).Methods(http.MethodPatch)
	protected.Handle("/brands/{id}/manage", allow(brandH.UpdateSettings, domain.RoleBrandManager)).Methods(http.MethodPatch)
	protected.Handle("/brands/{id}/package", allow(brandH.AssignPackage, staff...)).Methods(http.MethodPost)
	protected.Handle("/brands/{id}/archive", allow(brandH.Archive, adminOnly...)).Methods(http.MethodPatch)
	protected.Handle("/brands/{id}/restore", allow(brandH.Restore, adminOnly...)).Methods(http.MethodPatch)
	protected.Handle("/brands/{id}/managers", allow(brandH.ListManagers, brandEditors...)).Methods(http.MethodGet)
	protected.Handle("/brands/{id}/managers", allow(brandH.AddManager, brandEditors...)).Methods(http.MethodPost)
	protected.Handle("/brands/{id}/managers/{userId}", allow(brandH.RemoveManager, brandEditors...)).Methods(http.MethodDelete)

	offerH := NewOfferHandler(deps.Offers, validator)
	protected.Handle("/offers", allow(offerH.List, brandEditors...)).Methods(http.MethodGet)
	protected.Handle("/offers", allow(offerH.Create, brandEditors...)).Methods(http.MethodPost)
	protected.Handle("/offers/filter", allow(offerH.Filter, creatorOnly...)).Methods(http.MethodGet)
	protected.Handle("/offers/stats", allow(offerH.Stats, adminOnly...)).Methods(http.MethodGet)
	protected.Handle("/offers/archived", allow(offerH.ListArchived, brandEditors...)).Methods(http.MethodGet)
	protected.Handle("/offers/{id}", allow(offerH.Get)).Methods(http.MethodGet)
	protected.Handle("/offers/{id}", allow(offerH.Update, brandEditors...)).Methods(http.MethodPatch)
	protected.Handle("/offers/{id}", allow(offerH.Remove, brandEditors...)).Methods(http.MethodDelete)
	protected.Handle("/offers/{id}/archive", allow(offerH.Archive, brandEditors...)).Methods(http.MethodPatch)
	protected.Handle("/offers/{id}/restore", allow(offerH.Restore, brandEditors...)).Methods(http.MethodPatch)

	userH := NewUserHandler(deps.Users, validator)
	profileH := NewProfileHandler(deps.Profiles, validator)
	protected.Handle("/users", allow(userH.List, staff...)).Methods(http.MethodGet)
	protected.Handle("/users", allow(userH.Create, staff...)).Methods(http.MethodPost)
	protected.Handle("/users/archived", allow(userH.ListArchived, adminOnly...)).Methods(http.MethodGet)
	protected.Handle("/users/me", allow(userH.UpdateMe)).Methods(http.MethodPatch)
	protected.Handle("/users/restore/{id}", allow(userH.Restore, staff...)).Methods(http.MethodPost)
	protected.Handle("/users/{id}", allow(userH.Get, staff...)).Methods(http.MethodGet)
	protected.Handle("/users/{id}", allow(userH.Update, staff...)).Methods(http.MethodPatch)
	protected.Handle("/users/{id}", allow(userH.Archive, staff...)).Methods(http.MethodDelete)
	protected.Handle("/users/{id}/restore", allow(userH.Restore, staff...)).Methods(http.MethodPost)
	protected.Handle("/users/{id}/profile", allow(profileH.GetByUser)).Methods(http.MethodGet)

	protected.Handle("/profiles", allow(profileH.Create, creatorOnly...)).Methods(http.MethodPost)
	protected.Handle("/profiles/me", allow(profileH.GetMine, creatorOnly...)).Methods(http.MethodGet)
	protected.Handle("/profiles/me", allow(profileH.UpdateMine, creatorOnly...)).Methods(http.MethodPatch)

	if deps.Files != nil {
		uploadH := NewImageUploadHandler(deps.Files, deps.MaxUploadBytes, deps.AllowedExts)
		protected.Handle("/uploads/{folder}", allow(uploadH.HandleUpload)).Methods(http.MethodPost)
	}

	return CORSMiddleware(deps.CORSOrigin)(router)
}
