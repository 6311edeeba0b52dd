package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"ugeco-backoffice/internal/authz"
	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
)

type brandService struct {
	brandRepo repository.BrandRepository
	pkgRepo   repository.PackageRepository
	userRepo  repository.UserRepository
	files     FileDeleter
}

func NewBrandService(brandRepo repository.BrandRepository, pkgRepo repository.PackageRepository, userRepo repository.UserRepository, files FileDeleter) BrandService {
	return &brandService{
		brandRepo: brandRepo,
		pkgRepo:   pkgRepo,
		userRepo:  userRepo,
		files:     files,
	}
}

func (s *brandService) Create(ctx context.Context, caller domain.Principal, in BrandInput) (*domain.Brand, error) {
	logger.EnterMethod("brandService.Create", "callerID", caller.PrincipalID(), "country", in.Country)
	if !canManageBrands(caller) {
		return nil, domain.Forbidden("You cannot create brands")
	}

	var pkg *domain.Package
	if in.Package != nil {
		p, err := s.brandPackage(ctx, *in.Package)
		if err != nil {
			return nil, err
		}
		pkg = p
	}
	if !authz.CoversCountry(caller, in.Country) {
		return nil, domain.Forbidden(fmt.Sprintf("You cannot create brands in %s", in.Country))
	}
	if in.MainContact != nil {
		if err := s.checkMainContact(ctx, *in.MainContact, in.Country); err != nil {
			return nil, err
		}
	}

	brand := &domain.Brand{
		Name:        in.Name,
		ICO:         in.ICO,
		Address:     in.Address,
		City:        in.City,
		Zip:         in.Zip,
		Country:     in.Country,
		Categories:  in.Categories,
		MainContact: in.MainContact,
		Logo:        in.Logo,
		Socials:     in.Socials,
	}
	if pkg != nil {
		brand.AssignPackage(pkg, time.Now())
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		logger.ExitMethodWithError("brandService.Create", err, "name", in.Name)
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	logger.ExitMethod("brandService.Create", "brandID", brand.ID, "offersCount", brand.OffersCount)
	return brand, nil
}

func (s *brandService) FindAllForUser(ctx context.Context, caller domain.Principal) ([]domain.Brand, error) {
	filter := repository.BrandListFilter{}
	switch v := caller.(type) {
	case domain.Admin:
	case domain.Subadmin:
		filter.Countries = nonNil(v.Countries)
	case domain.BrandManager:
		filter.IDs = nonNil(v.Brands)
	default:
		return nil, domain.Forbidden("You do not have access to brands")
	}
	return s.brandRepo.List(ctx, filter)
}

func (s *brandService) FindArchived(ctx context.Context, caller domain.Principal) ([]domain.Brand, error) {
	if !authz.IsAdmin(caller) {
		return nil, domain.Forbidden("Only admins can list archived brands")
	}
	return s.brandRepo.List(ctx, repository.BrandListFilter{Archived: true})
}

func (s *brandService) FindOneForUser(ctx context.Context, caller domain.Principal, id int32) (*domain.Brand, error) {
	brand, err := loadVisibleBrand(ctx, s.brandRepo, id)
	if err != nil {
		return nil, err
	}
	if !authz.CoversBrand(caller, brand) {
		return nil, domain.Forbidden("You do not have access to this brand")
	}
	return brand, nil
}

// Update is the administrative edit path. Package, country and contact rules
// are re-checked only for the fields present in the payload.
func (s *brandService) Update(ctx context.Context, caller domain.Principal, id int32, in BrandPatch) (*domain.Brand, error) {
	logger.EnterMethod("brandService.Update", "callerID", caller.PrincipalID(), "brandID", id)
	if !canManageBrands(caller) {
		return nil, domain.Forbidden("You cannot edit brands")
	}
	brand, err := s.FindOneForUser(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	var pkg *domain.Package
	if in.Package != nil && !in.ClearPackage && (brand.PackageID == nil || *brand.PackageID != *in.Package) {
		if pkg, err = s.brandPackage(ctx, *in.Package); err != nil {
			return nil, err
		}
	}

	country := brand.Country
	if in.Country != nil {
		country = *in.Country
		if !authz.CoversCountry(caller, country) {
			return nil, domain.Forbidden(fmt.Sprintf("You cannot move brands to %s", country))
		}
	}
	if in.MainContact != nil {
		if err := s.checkMainContact(ctx, *in.MainContact, country); err != nil {
			return nil, err
		}
		brand.MainContact = in.MainContact
	}
	brand.Country = country

	oldLogo := s.applyCommon(brand, in)
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		logger.ExitMethodWithError("brandService.Update", err, "brandID", id)
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	switch {
	case in.ClearPackage:
		brand.ClearPackage()
	case pkg != nil:
		brand.AssignPackage(pkg, time.Now())
	}
	if in.ClearPackage || pkg != nil {
		if err := s.savePackage(ctx, brand); err != nil {
			logger.ExitMethodWithError("brandService.Update", err, "brandID", id)
			return nil, err
		}
	}
	if oldLogo != "" {
		removeFile(ctx, s.files, oldLogo)
	}
	logger.ExitMethod("brandService.Update", "brandID", id)
	return brand, nil
}

// UpdateForUser is the brand manager edit path. Country and package are
// fixed; any attempt to change them is refused.
func (s *brandService) UpdateForUser(ctx context.Context, caller domain.Principal, id int32, in BrandPatch) (*domain.Brand, error) {
	logger.EnterMethod("brandService.UpdateForUser", "callerID", caller.PrincipalID(), "brandID", id)
	brand, err := s.FindOneForUser(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Country != nil && *in.Country != brand.Country {
		return nil, domain.Forbidden("You cannot change the brand country")
	}
	if in.ClearPackage || (in.Package != nil && (brand.PackageID == nil || *brand.PackageID != *in.Package)) {
		return nil, domain.Forbidden("You cannot change the brand package")
	}
	if in.MainContact != nil {
		if err := s.checkMainContact(ctx, *in.MainContact, brand.Country); err != nil {
			return nil, err
		}
		brand.MainContact = in.MainContact
	}

	oldLogo := s.applyCommon(brand, in)
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		logger.ExitMethodWithError("brandService.UpdateForUser", err, "brandID", id)
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	if oldLogo != "" {
		removeFile(ctx, s.files, oldLogo)
	}
	logger.ExitMethod("brandService.UpdateForUser", "brandID", id)
	return brand, nil
}

// AssignPackage (re)starts the brand entitlement from the given package.
func (s *brandService) AssignPackage(ctx context.Context, caller domain.Principal, id, packageID int32) (*domain.Brand, error) {
	logger.EnterMethod("brandService.AssignPackage", "brandID", id, "packageID", packageID)
	if !canManageBrands(caller) {
		return nil, domain.Forbidden("You cannot assign packages")
	}
	brand, err := s.FindOneForUser(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	pkg, err := s.brandPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	brand.AssignPackage(pkg, time.Now())
	if err := s.savePackage(ctx, brand); err != nil {
		logger.ExitMethodWithError("brandService.AssignPackage", err, "brandID", id)
		return nil, err
	}
	logger.ExitMethod("brandService.AssignPackage", "brandID", id, "offersCount", brand.OffersCount)
	return brand, nil
}

func (s *brandService) Archive(ctx context.Context, caller domain.Principal, id int32) error {
	return s.setArchived(ctx, caller, id, true)
}

func (s *brandService) Restore(ctx context.Context, caller domain.Principal, id int32) error {
	return s.setArchived(ctx, caller, id, false)
}

func (s *brandService) setArchived(ctx context.Context, caller domain.Principal, id int32, archived bool) error {
	logger.EnterMethod("brandService.setArchived", "brandID", id, "archived", archived)
	if !authz.IsAdmin(caller) {
		return domain.Forbidden("Only admins can archive or restore brands")
	}
	if err := s.brandRepo.SetArchived(ctx, id, archived); err != nil {
		logger.ExitMethodWithError("brandService.setArchived", err, "brandID", id)
		return notFoundOr(err, "Brand not found")
	}
	logger.ExitMethod("brandService.setArchived", "brandID", id)
	return nil
}

// applyCommon copies the fields both edit paths accept and returns the logo
// that was replaced, if any.
func (s *brandService) applyCommon(brand *domain.Brand, in BrandPatch) string {
	setString(&brand.Name, in.Name)
	setString(&brand.ICO, in.ICO)
	setString(&brand.Address, in.Address)
	setString(&brand.City, in.City)
	setString(&brand.Zip, in.Zip)
	if in.Categories != nil {
		brand.Categories = in.Categories
	}
	in.SocialsPatch.apply(&brand.Socials)

	var oldLogo string
	if in.Logo != nil && *in.Logo != brand.Logo {
		oldLogo = brand.Logo
		brand.Logo = *in.Logo
	}
	return oldLogo
}

// savePackage writes the brand entitlement on its own, so that descriptive
// edits never write back a stale offer balance.
func (s *brandService) savePackage(ctx context.Context, brand *domain.Brand) error {
	if err := s.brandRepo.SetPackage(ctx, brand.ID, brand.PackageID, brand.PurchasedAt, brand.OffersCount); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFound("Brand not found")
		}
		return fmt.Errorf("failed to assign package: %w", err)
	}
	return nil
}

func (s *brandService) brandPackage(ctx context.Context, id int32) (*domain.Package, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Package with ID %d not found", id))
	}
	if pkg.Type != domain.PackageTypeBrand {
		return nil, domain.BadRequest(domain.CodeInvalidPackageType, "Package must be of type brand")
	}
	return pkg, nil
}

func (s *brandService) checkMainContact(ctx context.Context, userID int32, country string) error {
	contact, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("User with ID %d not found", userID))
	}
	if contact.IsArchived {
		return domain.NotFound(fmt.Sprintf("User with ID %d not found", userID))
	}
	if !slices.Contains(contact.Countries, country) {
		return domain.BadRequest(domain.CodeContactCountryMismatch, "Main contact must cover the brand country")
	}
	return nil
}

func canManageBrands(p domain.Principal) bool {
	switch p.(type) {
	case domain.Admin, domain.Subadmin:
		return true
	}
	return false
}

// nonNil keeps an empty scope distinct from "no restriction" in list filters.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
