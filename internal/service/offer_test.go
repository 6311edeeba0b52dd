package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/repository"
	"ugeco-backoffice/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assertDomainError(t *testing.T, err error, kind domain.ErrorKind, code string) {
	t.Helper()
	de, ok := domain.AsError(err)
	if !assert.True(t, ok, "expected *domain.Error, got %v", err) {
		return
	}
	assert.Equal(t, kind, de.Kind)
	if code != "" {
		assert.Equal(t, code, de.Code)
	}
}

func brandWithPackage(id int32, country string, slots int32, purchasedAt time.Time) *domain.Brand {
	return &domain.Brand{
		ID:          id,
		Name:        "Brand",
		Country:     country,
		PackageID:   int32p(7),
		PurchasedAt: timep(purchasedAt),
		OffersCount: slots,
	}
}

var brandPackage = &domain.Package{ID: 7, Name: "Brand S", ValidityMonths: 12, OffersCount: 3, Type: domain.PackageTypeBrand}

func activeInput(brandID int32) service.OfferInput {
	return service.OfferInput{
		BrandID: brandID,
		Name:    "Summer",
		Status:  domain.OfferStatusActive,
		Image:   "/uploads/offers/a.png",
	}
}

func TestOfferService_Create_SlotConservation(t *testing.T) {
	offerRepo := new(MockOfferRepo)
	brandRepo := new(MockBrandRepo)
	pkgRepo := new(MockPackageRepo)
	svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, nil)
	ctx := context.Background()

	brand := brandWithPackage(1, "SK", 3, time.Now())
	brandRepo.On("GetByID", ctx, int32(1)).Return(brand, nil)
	pkgRepo.On("GetByID", ctx, int32(7)).Return(brandPackage, nil)

	nextID := int32(100)
	offerRepo.On("CreateAndConsumeSlot", ctx, mock.AnythingOfType("*domain.Offer")).Run(func(args mock.Arguments) {
		o := args.Get(1).(*domain.Offer)
		nextID++
		o.ID = nextID
		brand.OffersCount--
		brand.OfferIDs = append(brand.OfferIDs, o.ID)
	}).Return(nil)

	admin := domain.Admin{ID: 1}
	for _, want := range []int32{2, 1, 0} {
		offer, err := svc.Create(ctx, admin, activeInput(1))
		require.NoError(t, err)
		assert.NotZero(t, offer.ID)
		assert.Equal(t, want, brand.OffersCount)
	}

	_, err := svc.Create(ctx, admin, activeInput(1))
	assertDomainError(t, err, domain.KindBadRequest, domain.CodeNoOffersRemaining)
	assert.Equal(t, "Brand does not have remaining offers", err.(*domain.Error).Message)
	assert.Equal(t, int32(0), brand.OffersCount)
	assert.Len(t, brand.OfferIDs, 3)
	offerRepo.AssertNumberOfCalls(t, "CreateAndConsumeSlot", 3)
}

func TestOfferService_Create_ConceptDoesNotConsume(t *testing.T) {
	offerRepo := new(MockOfferRepo)
	brandRepo := new(MockBrandRepo)
	pkgRepo := new(MockPackageRepo)
	svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, nil)
	ctx := context.Background()

	brand := brandWithPackage(1, "SK", 2, time.Now())
	brandRepo.On("GetByID", ctx, int32(1)).Return(brand, nil)
	offerRepo.On("Create", ctx, mock.AnythingOfType("*domain.Offer")).Return(nil)

	for i := 0; i < 5; i++ {
		offer, err := svc.Create(ctx, domain.BrandManager{ID: 3, Countries: []string{"SK"}, Brands: []int32{1}}, service.OfferInput{
			BrandID: 1,
			Name:    "Draft",
			Status:  domain.OfferStatusConcept,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OfferStatusConcept, offer.Status)
	}

	assert.Equal(t, int32(2), brand.OffersCount)
	offerRepo.AssertNotCalled(t, "CreateAndConsumeSlot", mock.Anything, mock.Anything)
	pkgRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestOfferService_Create_Entitlement(t *testing.T) {
	ctx := context.Background()
	admin := domain.Admin{ID: 1}

	t.Run("NoPackage", func(t *testing.T) {
		brandRepo := new(MockBrandRepo)
		svc := service.NewOfferService(new(MockOfferRepo), brandRepo, new(MockPackageRepo), nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(&domain.Brand{ID: 1, Country: "SK"}, nil)

		_, err := svc.Create(ctx, admin, activeInput(1))
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeNoPackage)
	})

	t.Run("Expired", func(t *testing.T) {
		brandRepo := new(MockBrandRepo)
		pkgRepo := new(MockPackageRepo)
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 3, time.Now().AddDate(0, -13, 0)), nil)
		pkgRepo.On("GetByID", ctx, int32(7)).Return(brandPackage, nil)

		_, err := svc.Create(ctx, admin, activeInput(1))
		assertDomainError(t, err, domain.KindBadRequest, domain.CodePackageExpired)
		offerRepo.AssertNotCalled(t, "CreateAndConsumeSlot", mock.Anything, mock.Anything)
	})

	t.Run("LostRace", func(t *testing.T) {
		brandRepo := new(MockBrandRepo)
		pkgRepo := new(MockPackageRepo)
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 1, time.Now()), nil)
		pkgRepo.On("GetByID", ctx, int32(7)).Return(brandPackage, nil)
		offerRepo.On("CreateAndConsumeSlot", ctx, mock.Anything).Return(repository.ErrNoOffersRemaining)

		_, err := svc.Create(ctx, admin, activeInput(1))
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeNoOffersRemaining)
	})

	t.Run("InvalidDateRange", func(t *testing.T) {
		brandRepo := new(MockBrandRepo)
		svc := service.NewOfferService(new(MockOfferRepo), brandRepo, new(MockPackageRepo), nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 1, time.Now()), nil)

		in := activeInput(1)
		in.ActiveFrom = timep(time.Now().Add(48 * time.Hour))
		in.ActiveTo = timep(time.Now())
		_, err := svc.Create(ctx, admin, in)
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeInvalidDateRange)
	})

	t.Run("ImageRequired", func(t *testing.T) {
		brandRepo := new(MockBrandRepo)
		svc := service.NewOfferService(new(MockOfferRepo), brandRepo, new(MockPackageRepo), nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 1, time.Now()), nil)

		in := activeInput(1)
		in.Image = ""
		_, err := svc.Create(ctx, admin, in)
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeImageRequired)
	})
}

func TestOfferService_Create_Scope(t *testing.T) {
	ctx := context.Background()
	brandRepo := new(MockBrandRepo)
	svc := service.NewOfferService(new(MockOfferRepo), brandRepo, new(MockPackageRepo), nil)

	brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "CZ", 3, time.Now()), nil)
	archived := brandWithPackage(2, "CZ", 3, time.Now())
	archived.IsArchived = true
	brandRepo.On("GetByID", ctx, int32(2)).Return(archived, nil)
	brandRepo.On("GetByID", ctx, int32(3)).Return(nil, repository.ErrNotFound)

	sub := domain.Subadmin{ID: 2, Countries: []string{"SK"}}

	_, err := svc.Create(ctx, sub, activeInput(1))
	assertDomainError(t, err, domain.KindForbidden, "")

	_, err = svc.Create(ctx, sub, activeInput(2))
	assertDomainError(t, err, domain.KindNotFound, "")

	_, err = svc.Create(ctx, sub, activeInput(3))
	assertDomainError(t, err, domain.KindNotFound, "")

	bm := domain.BrandManager{ID: 3, Countries: []string{"CZ"}, Brands: []int32{9}}
	_, err = svc.Create(ctx, bm, activeInput(1))
	assertDomainError(t, err, domain.KindForbidden, "")

	_, err = svc.Create(ctx, domain.Creator{ID: 4, Countries: []string{"CZ"}}, activeInput(1))
	assertDomainError(t, err, domain.KindForbidden, "")
}

func TestOfferService_Update(t *testing.T) {
	ctx := context.Background()
	admin := domain.Admin{ID: 1}

	t.Run("PublishWithoutSlotsKeepsConcept", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		pkgRepo := new(MockPackageRepo)
		svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, nil)

		stored := &domain.Offer{ID: 5, BrandID: 1, Name: "Draft", Status: domain.OfferStatusConcept, Image: "/uploads/offers/x.png"}
		brand := brandWithPackage(1, "SK", 0, time.Now())
		offerRepo.On("GetByID", ctx, int32(5)).Return(stored, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brand, nil)
		pkgRepo.On("GetByID", ctx, int32(7)).Return(brandPackage, nil)

		status := domain.OfferStatusActive
		_, err := svc.Update(ctx, admin, 5, service.OfferPatch{Status: &status})
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeNoOffersRemaining)
		assert.Equal(t, domain.OfferStatusConcept, stored.Status)
		assert.Equal(t, int32(0), brand.OffersCount)
		offerRepo.AssertNotCalled(t, "PublishAndConsumeSlot", mock.Anything, mock.Anything)
		offerRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Publish", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		pkgRepo := new(MockPackageRepo)
		svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, nil)

		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusConcept, Image: "/uploads/offers/x.png"}, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 2, time.Now()), nil)
		pkgRepo.On("GetByID", ctx, int32(7)).Return(brandPackage, nil)
		offerRepo.On("PublishAndConsumeSlot", ctx, mock.MatchedBy(func(o *domain.Offer) bool {
			return o.ID == 5 && o.Status == domain.OfferStatusActive
		})).Return(nil).Once()

		status := domain.OfferStatusActive
		offer, err := svc.Update(ctx, admin, 5, service.OfferPatch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.OfferStatusActive, offer.Status)
		offerRepo.AssertExpectations(t)
	})

	t.Run("PublishRaceLost", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		pkgRepo := new(MockPackageRepo)
		files := new(MockFiles)
		svc := service.NewOfferService(offerRepo, brandRepo, pkgRepo, files)

		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusConcept, Image: "/uploads/offers/x.png"}, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 2, time.Now()), nil)
		pkgRepo.On("GetByID", ctx, int32(7)).Return(brandPackage, nil)
		offerRepo.On("PublishAndConsumeSlot", ctx, mock.Anything).Return(repository.ErrNotConcept).Once()

		status := domain.OfferStatusActive
		_, err := svc.Update(ctx, admin, 5, service.OfferPatch{Status: &status, Image: strp("/uploads/offers/y.png")})
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeInvalidStatusTransition)
		files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("ActiveBackToConcept", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		svc := service.NewOfferService(offerRepo, brandRepo, new(MockPackageRepo), nil)

		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusActive, Image: "/i.png"}, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 2, time.Now()), nil)

		status := domain.OfferStatusConcept
		_, err := svc.Update(ctx, admin, 5, service.OfferPatch{Status: &status})
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeInvalidStatusTransition)
	})

	t.Run("ImageReplacementDeletesOldFileBestEffort", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		files := new(MockFiles)
		svc := service.NewOfferService(offerRepo, brandRepo, new(MockPackageRepo), files)

		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusActive, Image: "/uploads/offers/old.png"}, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(brandWithPackage(1, "SK", 2, time.Now()), nil)
		offerRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Offer) bool {
			return o.Image == "/uploads/offers/new.png"
		})).Return(nil)
		files.On("Delete", ctx, "/uploads/offers/old.png").Return(errors.New("disk gone")).Once()

		offer, err := svc.Update(ctx, admin, 5, service.OfferPatch{Image: strp("/uploads/offers/new.png")})
		require.NoError(t, err)
		assert.Equal(t, "/uploads/offers/new.png", offer.Image)
		files.AssertExpectations(t)
	})

	t.Run("ArchivedIsNotFound", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		svc := service.NewOfferService(offerRepo, new(MockBrandRepo), new(MockPackageRepo), nil)
		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, IsArchived: true}, nil)

		_, err := svc.Update(ctx, domain.Subadmin{ID: 2, Countries: []string{"HU"}}, 5, service.OfferPatch{Name: strp("x")})
		assertDomainError(t, err, domain.KindNotFound, "")
	})
}

func TestOfferService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("ActiveRejectedForEveryRole", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		svc := service.NewOfferService(offerRepo, brandRepo, new(MockPackageRepo), nil)
		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusActive}, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(&domain.Brand{ID: 1, Country: "SK"}, nil)

		callers := []domain.Principal{
			domain.Admin{ID: 1},
			domain.Subadmin{ID: 2, Countries: []string{"SK"}},
			domain.BrandManager{ID: 3, Countries: []string{"SK"}, Brands: []int32{1}},
		}
		for _, caller := range callers {
			err := svc.Remove(ctx, caller, 5)
			assertDomainError(t, err, domain.KindBadRequest, domain.CodeOnlyConceptsDeletable)
		}
		offerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Concept", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		brandRepo := new(MockBrandRepo)
		files := new(MockFiles)
		svc := service.NewOfferService(offerRepo, brandRepo, new(MockPackageRepo), files)
		offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusConcept, Image: "/uploads/offers/d.png"}, nil)
		brandRepo.On("GetByID", ctx, int32(1)).Return(&domain.Brand{ID: 1, Country: "SK"}, nil)
		offerRepo.On("Delete", ctx, int32(5)).Return(nil).Once()
		files.On("Delete", ctx, "/uploads/offers/d.png").Return(nil).Once()

		err := svc.Remove(ctx, domain.Admin{ID: 1}, 5)
		require.NoError(t, err)
		offerRepo.AssertExpectations(t)
		files.AssertExpectations(t)
	})
}

func TestOfferService_ArchiveRestore(t *testing.T) {
	ctx := context.Background()
	offerRepo := new(MockOfferRepo)
	brandRepo := new(MockBrandRepo)
	svc := service.NewOfferService(offerRepo, brandRepo, new(MockPackageRepo), nil)
	admin := domain.Admin{ID: 1}

	offerRepo.On("GetByID", ctx, int32(5)).Return(&domain.Offer{ID: 5, BrandID: 1}, nil)
	offerRepo.On("GetByID", ctx, int32(6)).Return(&domain.Offer{ID: 6, BrandID: 1, IsArchived: true}, nil)
	brandRepo.On("GetByID", ctx, int32(1)).Return(&domain.Brand{ID: 1, Country: "SK"}, nil)
	offerRepo.On("SetArchived", ctx, int32(5), true).Return(nil).Once()
	offerRepo.On("SetArchived", ctx, int32(6), false).Return(nil).Once()

	require.NoError(t, svc.Archive(ctx, admin, 5))
	require.NoError(t, svc.Restore(ctx, admin, 6))

	assertDomainError(t, svc.Archive(ctx, admin, 6), domain.KindNotFound, "")
	assertDomainError(t, svc.Restore(ctx, admin, 5), domain.KindNotFound, "")
	offerRepo.AssertExpectations(t)
}

func TestOfferService_FindAllForCreator(t *testing.T) {
	ctx := context.Background()
	offerRepo := new(MockOfferRepo)
	svc := service.NewOfferService(offerRepo, new(MockBrandRepo), new(MockPackageRepo), nil)

	paid := true
	offerRepo.On("ListPublished", ctx, domain.OfferFilter{
		Countries:       []string{"SK", "CZ"},
		Categories:      []string{"sport"},
		PaidCooperation: &paid,
	}, mock.AnythingOfType("time.Time")).Return([]domain.Offer{{ID: 1}}, nil).Once()

	offers, err := svc.FindAllForCreator(ctx, domain.Creator{ID: 9, Countries: []string{"SK", "CZ"}}, service.OfferQuery{
		Categories:      []string{"sport"},
		PaidCooperation: &paid,
	})
	require.NoError(t, err)
	assert.Len(t, offers, 1)

	_, err = svc.FindAllForCreator(ctx, domain.Admin{ID: 1}, service.OfferQuery{})
	assertDomainError(t, err, domain.KindForbidden, "")
	offerRepo.AssertExpectations(t)
}

func TestOfferService_FindOne(t *testing.T) {
	ctx := context.Background()
	creator := domain.Creator{ID: 9, Countries: []string{"SK"}}
	past := time.Now().AddDate(0, 0, -1)

	cases := []struct {
		name     string
		offer    *domain.Offer
		caller   domain.Principal
		wantKind domain.ErrorKind
	}{
		{"CreatorSeesLiveOffer", &domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusActive}, creator, ""},
		{"CreatorConceptIsMissing", &domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusConcept}, creator, domain.KindNotFound},
		{"CreatorEndedIsMissing", &domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusActive, ActiveTo: &past}, creator, domain.KindNotFound},
		{"CreatorOtherCountryIsMissing", &domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusActive}, domain.Creator{ID: 9, Countries: []string{"CZ"}}, domain.KindNotFound},
		{"ManagerOfOtherBrand", &domain.Offer{ID: 5, BrandID: 1, Status: domain.OfferStatusConcept}, domain.BrandManager{ID: 3, Countries: []string{"SK"}, Brands: []int32{2}}, domain.KindForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offerRepo := new(MockOfferRepo)
			brandRepo := new(MockBrandRepo)
			svc := service.NewOfferService(offerRepo, brandRepo, new(MockPackageRepo), nil)
			offerRepo.On("GetByID", ctx, int32(5)).Return(tc.offer, nil)
			brandRepo.On("GetByID", ctx, int32(1)).Return(&domain.Brand{ID: 1, Country: "SK"}, nil)

			offer, err := svc.FindOne(ctx, tc.caller, 5)
			if tc.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, int32(5), offer.ID)
				return
			}
			assertDomainError(t, err, tc.wantKind, "")
		})
	}
}

func TestOfferService_FindAllForUser_Scope(t *testing.T) {
	ctx := context.Background()
	offerRepo := new(MockOfferRepo)
	svc := service.NewOfferService(offerRepo, new(MockBrandRepo), new(MockPackageRepo), nil)

	offerRepo.On("List", ctx, repository.OfferListFilter{}).Return([]domain.Offer{{ID: 1}, {ID: 2}}, nil).Once()
	offerRepo.On("List", ctx, repository.OfferListFilter{Countries: []string{"SK"}}).Return([]domain.Offer{{ID: 1}}, nil).Once()
	offerRepo.On("List", ctx, repository.OfferListFilter{BrandIDs: []int32{}}).Return([]domain.Offer{}, nil).Once()

	all, err := svc.FindAllForUser(ctx, domain.Admin{ID: 1})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sk, err := svc.FindAllForUser(ctx, domain.Subadmin{ID: 2, Countries: []string{"SK"}})
	require.NoError(t, err)
	assert.Len(t, sk, 1)

	none, err := svc.FindAllForUser(ctx, domain.BrandManager{ID: 3})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.FindAllForUser(ctx, domain.Creator{ID: 4})
	assertDomainError(t, err, domain.KindForbidden, "")
	offerRepo.AssertExpectations(t)
}

func TestOfferService_Stats(t *testing.T) {
	ctx := context.Background()
	offerRepo := new(MockOfferRepo)
	svc := service.NewOfferService(offerRepo, new(MockBrandRepo), new(MockPackageRepo), nil)

	offerRepo.On("Stats", ctx, mock.AnythingOfType("time.Time")).Return(&domain.OfferStats{TotalOffers: 4, ActiveOffers: 2, CreatorsCount: 7}, nil)

	stats, err := svc.Stats(ctx, domain.Admin{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.CreatorsCount)

	_, err = svc.Stats(ctx, domain.Subadmin{ID: 2, Countries: []string{"SK"}})
	assertDomainError(t, err, domain.KindForbidden, "")
}
