package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ugeco-backoffice/internal/authz"
	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
)

type offerService struct {
	offerRepo repository.OfferRepository
	brandRepo repository.BrandRepository
	pkgRepo   repository.PackageRepository
	files     FileDeleter
}

func NewOfferService(offerRepo repository.OfferRepository, brandRepo repository.BrandRepository, pkgRepo repository.PackageRepository, files FileDeleter) OfferService {
	return &offerService{
		offerRepo: offerRepo,
		brandRepo: brandRepo,
		pkgRepo:   pkgRepo,
		files:     files,
	}
}

func errNoOffersRemaining() *domain.Error {
	return domain.BadRequest(domain.CodeNoOffersRemaining, "Brand does not have remaining offers")
}

// Create stores a new offer. An active offer consumes one slot of the brand
// balance in the same transaction; a concept never does.
func (s *offerService) Create(ctx context.Context, caller domain.Principal, in OfferInput) (*domain.Offer, error) {
	logger.EnterMethod("offerService.Create", "callerID", caller.PrincipalID(), "brandID", in.BrandID, "status", in.Status)

	brand, err := loadVisibleBrand(ctx, s.brandRepo, in.BrandID)
	if err != nil {
		return nil, err
	}
	if !authz.CoversBrand(caller, brand) {
		return nil, domain.Forbidden("You do not have access to this brand")
	}

	offer := &domain.Offer{
		BrandID:         brand.ID,
		Name:            in.Name,
		Status:          in.Status,
		PaidCooperation: in.PaidCooperation,
		ActiveFrom:      in.ActiveFrom,
		ActiveTo:        in.ActiveTo,
		Categories:      in.Categories,
		Languages:       in.Languages,
		Targets:         in.Targets,
		Image:           in.Image,
		Description:     in.Description,
		Contact:         in.Contact,
		Socials:         in.Socials,
	}
	if err := offer.Validate(); err != nil {
		return nil, err
	}

	if offer.Status == domain.OfferStatusConcept {
		if err := s.offerRepo.Create(ctx, offer); err != nil {
			logger.ExitMethodWithError("offerService.Create", err, "brandID", brand.ID)
			return nil, fmt.Errorf("failed to create offer: %w", err)
		}
		logger.ExitMethod("offerService.Create", "offerID", offer.ID, "status", offer.Status)
		return offer, nil
	}

	if err := s.checkEntitlement(ctx, brand, time.Now()); err != nil {
		return nil, err
	}
	if err := s.offerRepo.CreateAndConsumeSlot(ctx, offer); err != nil {
		logger.ExitMethodWithError("offerService.Create", err, "brandID", brand.ID)
		if errors.Is(err, repository.ErrNoOffersRemaining) {
			return nil, errNoOffersRemaining()
		}
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	logger.ExitMethod("offerService.Create", "offerID", offer.ID, "status", offer.Status)
	return offer, nil
}

// Update edits an offer. Moving a concept to active publishes it and
// consumes a slot; an active offer never goes back to concept.
func (s *offerService) Update(ctx context.Context, caller domain.Principal, id int32, in OfferPatch) (*domain.Offer, error) {
	logger.EnterMethod("offerService.Update", "callerID", caller.PrincipalID(), "offerID", id)

	offer, brand, err := s.loadManaged(ctx, caller, id, false)
	if err != nil {
		return nil, err
	}

	publishing := false
	if in.Status != nil && *in.Status != offer.Status {
		if *in.Status != domain.OfferStatusActive {
			return nil, domain.BadRequest(domain.CodeInvalidStatusTransition, "Active offers cannot return to concept")
		}
		publishing = true
	}

	updated := *offer
	oldImage := applyOfferPatch(&updated, in)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if publishing {
		if err := s.checkEntitlement(ctx, brand, time.Now()); err != nil {
			return nil, err
		}
		err = s.offerRepo.PublishAndConsumeSlot(ctx, &updated)
	} else {
		err = s.offerRepo.Update(ctx, &updated)
	}
	if err != nil {
		logger.ExitMethodWithError("offerService.Update", err, "offerID", id)
		switch {
		case errors.Is(err, repository.ErrNoOffersRemaining):
			return nil, errNoOffersRemaining()
		case errors.Is(err, repository.ErrNotConcept):
			return nil, domain.BadRequest(domain.CodeInvalidStatusTransition, "Offer is already published")
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.NotFound("Offer not found")
		}
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	if oldImage != "" {
		removeFile(ctx, s.files, oldImage)
	}
	logger.ExitMethod("offerService.Update", "offerID", id, "published", publishing)
	return &updated, nil
}

func (s *offerService) FindOne(ctx context.Context, caller domain.Principal, id int32) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Offer not found")
	}
	if offer.IsArchived {
		return nil, domain.NotFound("Offer not found")
	}
	brand, err := loadVisibleBrand(ctx, s.brandRepo, offer.BrandID)
	if err != nil {
		return nil, domain.NotFound("Offer not found")
	}

	// Creators only see what their listing would show; anything else is missing to them.
	if _, ok := caller.(domain.Creator); ok {
		if offer.DisplayStatus(time.Now()) != domain.DisplayActive || !authz.CoversCountry(caller, brand.Country) {
			return nil, domain.NotFound("Offer not found")
		}
		return offer, nil
	}
	if !authz.CoversBrand(caller, brand) {
		return nil, domain.Forbidden("You do not have access to this offer")
	}
	return offer, nil
}

func (s *offerService) FindAllForUser(ctx context.Context, caller domain.Principal) ([]domain.Offer, error) {
	filter, err := offerScope(caller)
	if err != nil {
		return nil, err
	}
	return s.offerRepo.List(ctx, filter)
}

func (s *offerService) FindArchived(ctx context.Context, caller domain.Principal) ([]domain.Offer, error) {
	filter, err := offerScope(caller)
	if err != nil {
		return nil, err
	}
	filter.Archived = true
	return s.offerRepo.List(ctx, filter)
}

// FindAllForCreator lists live offers from brands in the creator's countries.
func (s *offerService) FindAllForCreator(ctx context.Context, caller domain.Principal, q OfferQuery) ([]domain.Offer, error) {
	creator, ok := caller.(domain.Creator)
	if !ok {
		return nil, domain.Forbidden("Only creators can browse offers")
	}
	filter := domain.OfferFilter{
		Countries:       nonNil(creator.Countries),
		Categories:      q.Categories,
		Targets:         q.Targets,
		Languages:       q.Languages,
		PaidCooperation: q.PaidCooperation,
	}
	return s.offerRepo.ListPublished(ctx, filter, time.Now())
}

func (s *offerService) Archive(ctx context.Context, caller domain.Principal, id int32) error {
	logger.EnterMethod("offerService.Archive", "callerID", caller.PrincipalID(), "offerID", id)
	if _, _, err := s.loadManaged(ctx, caller, id, false); err != nil {
		return err
	}
	if err := s.offerRepo.SetArchived(ctx, id, true); err != nil {
		logger.ExitMethodWithError("offerService.Archive", err, "offerID", id)
		return notFoundOr(err, "Offer not found")
	}
	logger.ExitMethod("offerService.Archive", "offerID", id)
	return nil
}

func (s *offerService) Restore(ctx context.Context, caller domain.Principal, id int32) error {
	logger.EnterMethod("offerService.Restore", "callerID", caller.PrincipalID(), "offerID", id)
	if _, _, err := s.loadManaged(ctx, caller, id, true); err != nil {
		return err
	}
	if err := s.offerRepo.SetArchived(ctx, id, false); err != nil {
		logger.ExitMethodWithError("offerService.Restore", err, "offerID", id)
		return notFoundOr(err, "Offer not found")
	}
	logger.ExitMethod("offerService.Restore", "offerID", id)
	return nil
}

// Remove hard-deletes a concept. Published offers are only ever archived.
func (s *offerService) Remove(ctx context.Context, caller domain.Principal, id int32) error {
	logger.EnterMethod("offerService.Remove", "callerID", caller.PrincipalID(), "offerID", id)
	offer, _, err := s.loadManaged(ctx, caller, id, false)
	if err != nil {
		return err
	}
	if offer.Status != domain.OfferStatusConcept {
		return domain.BadRequest(domain.CodeOnlyConceptsDeletable, "Only concept offers can be deleted")
	}
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("offerService.Remove", err, "offerID", id)
		return notFoundOr(err, "Offer not found")
	}
	removeFile(ctx, s.files, offer.Image)
	logger.ExitMethod("offerService.Remove", "offerID", id)
	return nil
}

func (s *offerService) Stats(ctx context.Context, caller domain.Principal) (*domain.OfferStats, error) {
	if !authz.IsAdmin(caller) {
		return nil, domain.Forbidden("Only admins can view statistics")
	}
	return s.offerRepo.Stats(ctx, time.Now())
}

// loadManaged loads an offer in the wanted archive state and checks that the
// caller manages its brand. Archive state is checked before scope.
func (s *offerService) loadManaged(ctx context.Context, caller domain.Principal, id int32, archived bool) (*domain.Offer, *domain.Brand, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(err, "Offer not found")
	}
	if offer.IsArchived != archived {
		return nil, nil, domain.NotFound("Offer not found")
	}
	brand, err := loadVisibleBrand(ctx, s.brandRepo, offer.BrandID)
	if err != nil {
		return nil, nil, domain.NotFound("Offer not found")
	}
	if !authz.CoversBrand(caller, brand) {
		return nil, nil, domain.Forbidden("You do not have access to this offer")
	}
	return offer, brand, nil
}

// checkEntitlement verifies the brand may publish one more offer at now.
func (s *offerService) checkEntitlement(ctx context.Context, brand *domain.Brand, now time.Time) error {
	if !brand.HasPackage() {
		return domain.BadRequest(domain.CodeNoPackage, "Brand does not have a package")
	}
	pkg, err := s.pkgRepo.GetByID(ctx, *brand.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.BadRequest(domain.CodeNoPackage, "Brand does not have a package")
		}
		return err
	}
	if !pkg.IsValidAt(*brand.PurchasedAt, now) {
		return domain.BadRequest(domain.CodePackageExpired, "Brand package has expired")
	}
	if brand.OffersCount <= 0 {
		return errNoOffersRemaining()
	}
	return nil
}

func offerScope(caller domain.Principal) (repository.OfferListFilter, error) {
	switch v := caller.(type) {
	case domain.Admin:
		return repository.OfferListFilter{}, nil
	case domain.Subadmin:
		return repository.OfferListFilter{Countries: nonNil(v.Countries)}, nil
	case domain.BrandManager:
		return repository.OfferListFilter{BrandIDs: nonNil(v.Brands)}, nil
	}
	return repository.OfferListFilter{}, domain.Forbidden("You do not have access to offers")
}

// applyOfferPatch copies present fields onto o and returns the image that
// was replaced, if any.
func applyOfferPatch(o *domain.Offer, in OfferPatch) string {
	setString(&o.Name, in.Name)
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.PaidCooperation != nil {
		o.PaidCooperation = *in.PaidCooperation
	}
	if in.ActiveFrom != nil {
		o.ActiveFrom = in.ActiveFrom
	}
	if in.ActiveTo != nil {
		o.ActiveTo = in.ActiveTo
	}
	if in.Categories != nil {
		o.Categories = in.Categories
	}
	if in.Languages != nil {
		o.Languages = in.Languages
	}
	if in.Targets != nil {
		o.Targets = in.Targets
	}
	setString(&o.Description, in.Description)
	setString(&o.Contact, in.Contact)
	in.SocialsPatch.apply(&o.Socials)

	var oldImage string
	if in.Image != nil && *in.Image != o.Image {
		oldImage = o.Image
		o.Image = *in.Image
	}
	return oldImage
}
