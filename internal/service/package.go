package service

import (
	"context"
	"errors"
	"fmt"

	"ugeco-backoffice/internal/authz"
	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
)

type packageService struct {
	pkgRepo repository.PackageRepository
}

func NewPackageService(pkgRepo repository.PackageRepository) PackageService {
	return &packageService{pkgRepo: pkgRepo}
}

func (s *packageService) Create(ctx context.Context, caller domain.Principal, in PackageInput) (*domain.Package, error) {
	logger.EnterMethod("packageService.Create", "name", in.Name)
	if !authz.IsAdmin(caller) {
		return nil, domain.Forbidden("Only admins can manage packages")
	}
	if err := s.ensureNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	pkg := &domain.Package{
		Name:           in.Name,
		ValidityMonths: in.ValidityMonths,
		OffersCount:    in.OffersCount,
		Type:           in.Type,
	}
	if err := s.pkgRepo.Create(ctx, pkg); err != nil {
		logger.ExitMethodWithError("packageService.Create", err, "name", in.Name)
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	logger.ExitMethod("packageService.Create", "packageID", pkg.ID)
	return pkg, nil
}

func (s *packageService) List(ctx context.Context, caller domain.Principal) ([]domain.Package, error) {
	return s.pkgRepo.List(ctx)
}

func (s *packageService) Get(ctx context.Context, caller domain.Principal, id int32) (*domain.Package, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Package not found")
	}
	return pkg, nil
}

func (s *packageService) Update(ctx context.Context, caller domain.Principal, id int32, in PackagePatch) (*domain.Package, error) {
	logger.EnterMethod("packageService.Update", "packageID", id)
	if !authz.IsAdmin(caller) {
		return nil, domain.Forbidden("Only admins can manage packages")
	}
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Package not found")
	}

	if in.Name != nil && *in.Name != pkg.Name {
		if err := s.ensureNameFree(ctx, *in.Name, pkg.ID); err != nil {
			return nil, err
		}
		pkg.Name = *in.Name
	}
	if in.ValidityMonths != nil {
		pkg.ValidityMonths = *in.ValidityMonths
	}
	if in.OffersCount != nil {
		pkg.OffersCount = *in.OffersCount
	}
	if in.Type != nil && *in.Type != pkg.Type {
		refs, err := s.pkgRepo.CountActiveReferences(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count package references: %w", err)
		}
		if refs > 0 {
			return nil, errPackageInUse()
		}
		pkg.Type = *in.Type
	}

	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		logger.ExitMethodWithError("packageService.Update", err, "packageID", id)
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	logger.ExitMethod("packageService.Update", "packageID", id)
	return pkg, nil
}

// Remove deletes a package nobody active holds any more. The reference check
// and the unassignment of archived holders share one transaction.
func (s *packageService) Remove(ctx context.Context, caller domain.Principal, id int32) error {
	logger.EnterMethod("packageService.Remove", "packageID", id)
	if !authz.IsAdmin(caller) {
		return domain.Forbidden("Only admins can manage packages")
	}
	if err := s.pkgRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("packageService.Remove", err, "packageID", id)
		if errors.Is(err, repository.ErrPackageInUse) {
			return errPackageInUse()
		}
		return notFoundOr(err, "Package not found")
	}
	logger.ExitMethod("packageService.Remove", "packageID", id)
	return nil
}

func errPackageInUse() error {
	return domain.BadRequest(domain.CodePackageInUse, "Package is assigned to active users or brands")
}

func (s *packageService) ensureNameFree(ctx context.Context, name string, selfID int32) error {
	existing, err := s.pkgRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.BadRequest(domain.CodePackageNameTaken, "Package with this name already exists")
	}
	return nil
}
