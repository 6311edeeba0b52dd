package service_test

import (
	"context"
	"errors"
	"testing"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/repository"
	"ugeco-backoffice/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Create(t *testing.T) {
	ctx := context.Background()
	creator := domain.Creator{ID: 4, Countries: []string{"SK"}}
	in := service.ProfileInput{
		Name:       "Eva",
		Languages:  []string{"SK", "CZ"},
		Categories: []string{"fashion"},
		CreatingAs: []string{"influencer"},
		Image:      "uploads/eva.png",
		About:      "About me",
		Portfolio:  "https://eva.example",
	}

	t.Run("CreatorsOnly", func(t *testing.T) {
		svc := service.NewProfileService(new(MockProfileRepo), new(MockUserRepo), nil)
		_, err := svc.Create(ctx, domain.BrandManager{ID: 3}, in)
		assertDomainError(t, err, domain.KindForbidden, "")
	})

	t.Run("OnePerCreator", func(t *testing.T) {
		repo := new(MockProfileRepo)
		svc := service.NewProfileService(repo, new(MockUserRepo), nil)
		repo.On("GetByUserID", ctx, int32(4)).Return(&domain.CreatorProfile{ID: 1, UserID: 4}, nil)

		_, err := svc.Create(ctx, creator, in)
		assertDomainError(t, err, domain.KindBadRequest, domain.CodeProfileExists)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(MockProfileRepo)
		svc := service.NewProfileService(repo, new(MockUserRepo), nil)
		repo.On("GetByUserID", ctx, int32(4)).Return(nil, repository.ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(p *domain.CreatorProfile) bool {
			return p.UserID == 4 && p.Name == "Eva" && len(p.Languages) == 2
		})).Return(nil).Once()

		profile, err := svc.Create(ctx, creator, in)
		require.NoError(t, err)
		assert.Equal(t, "https://eva.example", profile.Portfolio)
		repo.AssertExpectations(t)
	})
}

func TestProfileService_Update_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	files := new(MockFiles)
	svc := service.NewProfileService(repo, new(MockUserRepo), files)

	repo.On("GetByUserID", ctx, int32(4)).Return(&domain.CreatorProfile{ID: 1, UserID: 4, Name: "Eva", Image: "uploads/old.png"}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil).Once()
	files.On("Delete", ctx, "uploads/old.png").Return(errors.New("gone already")).Once()

	profile, err := svc.Update(ctx, domain.Creator{ID: 4}, service.ProfilePatch{Image: strp("uploads/new.png"), About: strp("Hi")})
	require.NoError(t, err)
	assert.Equal(t, "uploads/new.png", profile.Image)
	assert.Equal(t, "Hi", profile.About)
	assert.Equal(t, "Eva", profile.Name)
	files.AssertExpectations(t)
}

func TestProfileService_Update_Missing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	svc := service.NewProfileService(repo, new(MockUserRepo), nil)
	repo.On("GetByUserID", ctx, int32(4)).Return(nil, repository.ErrNotFound)

	_, err := svc.Update(ctx, domain.Creator{ID: 4}, service.ProfilePatch{})
	assertDomainError(t, err, domain.KindNotFound, "")
}

func TestProfileService_FindByUser(t *testing.T) {
	ctx := context.Background()
	profileRepo := new(MockProfileRepo)
	userRepo := new(MockUserRepo)
	svc := service.NewProfileService(profileRepo, userRepo, nil)

	userRepo.On("GetByID", ctx, int32(4)).Return(&domain.User{ID: 4, Role: domain.RoleCreator, Countries: []string{"SK"}}, nil)
	userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, Role: domain.RoleCreator, IsArchived: true}, nil)
	profileRepo.On("GetByUserID", ctx, int32(4)).Return(&domain.CreatorProfile{ID: 1, UserID: 4}, nil)

	t.Run("Self", func(t *testing.T) {
		profile, err := svc.FindByUser(ctx, domain.Creator{ID: 4}, 4)
		require.NoError(t, err)
		assert.Equal(t, int32(1), profile.ID)
	})

	t.Run("SubadminSharingCountry", func(t *testing.T) {
		_, err := svc.FindByUser(ctx, domain.Subadmin{ID: 2, Countries: []string{"SK"}}, 4)
		require.NoError(t, err)
	})

	t.Run("SubadminOutsideScope", func(t *testing.T) {
		_, err := svc.FindByUser(ctx, domain.Subadmin{ID: 2, Countries: []string{"HU"}}, 4)
		assertDomainError(t, err, domain.KindForbidden, "")
	})

	t.Run("OtherCreator", func(t *testing.T) {
		_, err := svc.FindByUser(ctx, domain.Creator{ID: 6}, 4)
		assertDomainError(t, err, domain.KindForbidden, "")
	})

	t.Run("ArchivedUser", func(t *testing.T) {
		_, err := svc.FindByUser(ctx, domain.Admin{ID: 1}, 5)
		assertDomainError(t, err, domain.KindNotFound, "")
	})
}
