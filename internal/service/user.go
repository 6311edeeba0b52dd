package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"ugeco-backoffice/internal/authz"
	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
	"ugeco-backoffice/internal/security"
)

type userService struct {
	userRepo  repository.UserRepository
	brandRepo repository.BrandRepository
	pkgRepo   repository.PackageRepository
	emailSvc  EmailService
	initTTL   time.Duration
}

func NewUserService(userRepo repository.UserRepository, brandRepo repository.BrandRepository, pkgRepo repository.PackageRepository, emailSvc EmailService, initTTL time.Duration) UserService {
	return &userService{
		userRepo:  userRepo,
		brandRepo: brandRepo,
		pkgRepo:   pkgRepo,
		emailSvc:  emailSvc,
		initTTL:   initTTL,
	}
}

func (s *userService) Create(ctx context.Context, caller domain.Principal, in UserInput) (*domain.User, error) {
	logger.EnterMethod("userService.Create", "callerID", caller.PrincipalID(), "role", in.Role)

	email := domain.NormalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	if err := checkRole(caller, in.Role); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:      in.Name,
		SurName:   in.SurName,
		Email:     email,
		Role:      in.Role,
		Countries: in.Countries,
		Brands:    in.Brands,
		PackageID: in.Package,
		ICO:       in.ICO,
	}
	if err := s.checkCountries(caller, in.Countries); err != nil {
		return nil, err
	}
	if in.Role == domain.RoleBrandManager {
		if err := s.checkBrands(ctx, caller, in.Brands); err != nil {
			return nil, err
		}
	}
	if in.Package != nil {
		if err := s.checkCreatorPackage(ctx, *in.Package); err != nil {
			return nil, err
		}
	}
	if err := user.ApplyRoleShape(); err != nil {
		return nil, err
	}

	now := time.Now()
	if user.Role == domain.RoleCreator {
		user.PurchasedAt = &now
	}

	var rawToken string
	if in.Password != "" {
		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	} else {
		raw, digest, err := security.NewOneTimeToken()
		if err != nil {
			return nil, err
		}
		expires := now.Add(s.initTTL)
		rawToken = raw
		user.InitTokenDigest = digest
		user.InitTokenExpires = &expires
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.Create", err, "email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if rawToken != "" {
		if err := s.emailSvc.SendInitEmail(ctx, user.Email, rawToken); err != nil {
			logger.ExitMethodWithError("userService.Create", err, "userID", user.ID)
			return nil, domain.BadRequest(domain.CodeEmailNotSent, "Could not send welcome email")
		}
	}

	logger.ExitMethod("userService.Create", "userID", user.ID, "role", user.Role)
	return user, nil
}

// Update edits another account. Scope rules are re-checked for every field
// present in the payload, and a changed creator package restarts validity.
func (s *userService) Update(ctx context.Context, caller domain.Principal, id int32, in UserPatch) (*domain.User, error) {
	logger.EnterMethod("userService.Update", "callerID", caller.PrincipalID(), "userID", id)
	if !canManageUsers(caller) {
		return nil, domain.Forbidden("You cannot edit users")
	}
	user, err := s.FindOne(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if err := checkRole(caller, user.Role); err != nil {
		return nil, err
	}
	if in.Role != nil {
		if err := checkRole(caller, *in.Role); err != nil {
			return nil, err
		}
		user.Role = *in.Role
	}
	if in.Countries != nil {
		if err := s.checkCountries(caller, in.Countries); err != nil {
			return nil, err
		}
		user.Countries = in.Countries
	}
	if in.Brands != nil && user.Role == domain.RoleBrandManager {
		if err := s.checkBrands(ctx, caller, in.Brands); err != nil {
			return nil, err
		}
		user.Brands = in.Brands
	}

	packageChanged := false
	if in.Package != nil && (user.PackageID == nil || *user.PackageID != *in.Package) {
		if err := s.checkCreatorPackage(ctx, *in.Package); err != nil {
			return nil, err
		}
		user.PackageID = in.Package
		packageChanged = true
	}

	setString(&user.Name, in.Name)
	setString(&user.SurName, in.SurName)
	setString(&user.ICO, in.ICO)

	if err := user.ApplyRoleShape(); err != nil {
		return nil, err
	}
	if user.Role == domain.RoleCreator && (packageChanged || user.PurchasedAt == nil) {
		now := time.Now()
		user.PurchasedAt = &now
	}

	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.Update", err, "userID", id)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	logger.ExitMethod("userService.Update", "userID", id)
	return user, nil
}

func (s *userService) UpdateSelf(ctx context.Context, caller domain.Principal, in SelfPatch) (*domain.User, error) {
	logger.EnterMethod("userService.UpdateSelf", "userID", caller.PrincipalID())
	user, err := s.userRepo.GetByID(ctx, caller.PrincipalID())
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	if user.IsArchived {
		return nil, domain.NotFound("User not found")
	}

	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	setString(&user.Name, in.Name)
	setString(&user.SurName, in.SurName)
	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.UpdateSelf", err, "userID", user.ID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	logger.ExitMethod("userService.UpdateSelf", "userID", user.ID)
	return user, nil
}

func (s *userService) FindAll(ctx context.Context, caller domain.Principal) ([]domain.User, error) {
	switch v := caller.(type) {
	case domain.Admin:
		return s.userRepo.List(ctx, repository.UserListFilter{})
	case domain.Subadmin:
		return s.userRepo.List(ctx, repository.UserListFilter{Countries: nonNil(v.Countries)})
	}
	return nil, domain.Forbidden("You cannot list users")
}

func (s *userService) FindArchived(ctx context.Context, caller domain.Principal) ([]domain.User, error) {
	if !authz.IsAdmin(caller) {
		return nil, domain.Forbidden("Only admins can list archived users")
	}
	return s.userRepo.List(ctx, repository.UserListFilter{Archived: true})
}

func (s *userService) FindOne(ctx context.Context, caller domain.Principal, id int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("User with ID %d not found", id))
	}
	if user.IsArchived {
		return nil, domain.NotFound(fmt.Sprintf("User with ID %d not found", id))
	}
	if !authz.CoversUser(caller, user) {
		return nil, domain.Forbidden("You do not have access to this user")
	}
	return user, nil
}

// CreateBrandManager grants a brand to a manager account, reusing an existing
// brand manager with the same email instead of creating a duplicate.
func (s *userService) CreateBrandManager(ctx context.Context, caller domain.Principal, brandID int32, in BrandManagerInput) (*domain.User, error) {
	logger.EnterMethod("userService.CreateBrandManager", "callerID", caller.PrincipalID(), "brandID", brandID)

	brand, err := loadVisibleBrand(ctx, s.brandRepo, brandID)
	if err != nil {
		return nil, err
	}
	if !authz.CoversBrand(caller, brand) {
		return nil, domain.Forbidden("You do not have access to this brand")
	}

	email := domain.NormalizeEmail(in.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.grantBrand(ctx, existing, brand)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	raw, digest, err := security.NewOneTimeToken()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.initTTL)
	user := &domain.User{
		Name:             in.Name,
		SurName:          in.SurName,
		Email:            email,
		Role:             domain.RoleBrandManager,
		Countries:        []string{brand.Country},
		Brands:           []int32{brand.ID},
		InitTokenDigest:  digest,
		InitTokenExpires: &expires,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.CreateBrandManager", err, "brandID", brandID)
		return nil, fmt.Errorf("failed to create brand manager: %w", err)
	}
	if err := s.emailSvc.SendInitEmail(ctx, user.Email, raw); err != nil {
		logger.ExitMethodWithError("userService.CreateBrandManager", err, "userID", user.ID)
		return nil, domain.BadRequest(domain.CodeEmailNotSent, "Could not send welcome email")
	}

	logger.ExitMethod("userService.CreateBrandManager", "userID", user.ID, "brandID", brandID, "reused", false)
	return user, nil
}

func (s *userService) grantBrand(ctx context.Context, user *domain.User, brand *domain.Brand) (*domain.User, error) {
	switch user.Role {
	case domain.RoleCreator:
		return nil, domain.Forbidden("A creator account cannot become a brand manager")
	case domain.RoleBrandManager:
	default:
		return nil, domain.BadRequest(domain.CodeEmailTaken, "Email already in use")
	}
	if user.IsArchived {
		return nil, domain.BadRequest(domain.CodeAlreadyArchived, "Brand manager account is archived")
	}

	if !user.HasBrand(brand.ID) {
		user.Brands = append(user.Brands, brand.ID)
	}
	if !slices.Contains(user.Countries, brand.Country) {
		user.Countries = append(user.Countries, brand.Country)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to grant brand: %w", err)
	}
	logger.ExitMethod("userService.CreateBrandManager", "userID", user.ID, "brandID", brand.ID, "reused", true)
	return user, nil
}

// RemoveBrandAccess revokes one brand and keeps only the countries still
// backed by a remaining brand.
func (s *userService) RemoveBrandAccess(ctx context.Context, caller domain.Principal, brandID, userID int32) error {
	logger.EnterMethod("userService.RemoveBrandAccess", "callerID", caller.PrincipalID(), "brandID", brandID, "userID", userID)

	brand, err := loadVisibleBrand(ctx, s.brandRepo, brandID)
	if err != nil {
		return err
	}
	if !authz.CoversBrand(caller, brand) {
		return domain.Forbidden("You do not have access to this brand")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("User with ID %d not found", userID))
	}
	if user.IsArchived || user.Role != domain.RoleBrandManager || !user.HasBrand(brandID) {
		return domain.NotFound("Brand manager not found for this brand")
	}

	remaining := slices.DeleteFunc(slices.Clone(user.Brands), func(id int32) bool { return id == brandID })
	countries := make([]string, 0, len(remaining))
	for _, id := range remaining {
		b, err := s.brandRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}
		if !slices.Contains(countries, b.Country) {
			countries = append(countries, b.Country)
		}
	}
	user.Brands = remaining
	user.Countries = countries

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.RemoveBrandAccess", err, "userID", userID)
		return fmt.Errorf("failed to remove brand access: %w", err)
	}
	logger.ExitMethod("userService.RemoveBrandAccess", "userID", userID, "remainingBrands", len(remaining))
	return nil
}

func (s *userService) GetBrandManagersByBrand(ctx context.Context, caller domain.Principal, brandID int32) ([]domain.User, error) {
	brand, err := loadVisibleBrand(ctx, s.brandRepo, brandID)
	if err != nil {
		return nil, err
	}
	if !authz.CoversBrand(caller, brand) {
		return nil, domain.Forbidden("You do not have access to this brand")
	}
	return s.userRepo.ListBrandManagers(ctx, brandID)
}

// Archive is strict: archiving an archived user is an error, not a no-op.
func (s *userService) Archive(ctx context.Context, caller domain.Principal, id int32) error {
	logger.EnterMethod("userService.Archive", "callerID", caller.PrincipalID(), "userID", id)
	user, err := s.loadForArchive(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := user.Archive(time.Now()); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.Archive", err, "userID", id)
		return fmt.Errorf("failed to archive user: %w", err)
	}
	logger.ExitMethod("userService.Archive", "userID", id)
	return nil
}

func (s *userService) Restore(ctx context.Context, caller domain.Principal, id int32) error {
	logger.EnterMethod("userService.Restore", "callerID", caller.PrincipalID(), "userID", id)
	user, err := s.loadForArchive(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := user.Restore(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.Restore", err, "userID", id)
		return fmt.Errorf("failed to restore user: %w", err)
	}
	logger.ExitMethod("userService.Restore", "userID", id)
	return nil
}

func (s *userService) loadForArchive(ctx context.Context, caller domain.Principal, id int32) (*domain.User, error) {
	if !canManageUsers(caller) {
		return nil, domain.Forbidden("You cannot archive or restore users")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("User with ID %d not found", id))
	}
	if !authz.CoversUser(caller, user) {
		return nil, domain.Forbidden("You do not have access to this user")
	}
	return user, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, selfID int32) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.BadRequest(domain.CodeEmailTaken, "Email already in use")
	}
	return nil
}

// checkCountries rejects countries outside the caller's own scope.
func (s *userService) checkCountries(caller domain.Principal, countries []string) error {
	var invalid []string
	for _, c := range countries {
		if !authz.CoversCountry(caller, c) {
			invalid = append(invalid, c)
		}
	}
	if len(invalid) > 0 {
		return domain.Forbidden("You cannot assign countries: " + strings.Join(invalid, ", "))
	}
	return nil
}

// checkBrands requires every brand to exist, be active and lie in the
// caller's countries.
func (s *userService) checkBrands(ctx context.Context, caller domain.Principal, ids []int32) error {
	var missing, forbidden []int32
	for _, id := range ids {
		brand, err := s.brandRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				missing = append(missing, id)
				continue
			}
			return err
		}
		if brand.IsArchived {
			missing = append(missing, id)
			continue
		}
		if !authz.CoversCountry(caller, brand.Country) {
			forbidden = append(forbidden, id)
		}
	}
	if len(missing) > 0 {
		return domain.NotFound("Brand(s) not found: " + joinIDs(missing))
	}
	if len(forbidden) > 0 {
		return domain.Forbidden("You cannot assign brands: " + joinIDs(forbidden))
	}
	return nil
}

func (s *userService) checkCreatorPackage(ctx context.Context, id int32) error {
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("Package with ID %d not found", id))
	}
	if pkg.Type != domain.PackageTypeCreator {
		return domain.BadRequest(domain.CodeInvalidPackageType, "Package must be of type creator")
	}
	return nil
}

func checkRole(caller domain.Principal, role domain.Role) error {
	if !role.Valid() {
		return domain.BadRequest(domain.CodeInvalidRole, "Unknown role")
	}
	if !authz.CanAssignRole(caller, role) {
		return domain.Forbidden(fmt.Sprintf("You cannot assign role %s", role))
	}
	return nil
}

func canManageUsers(p domain.Principal) bool {
	return canManageBrands(p)
}
