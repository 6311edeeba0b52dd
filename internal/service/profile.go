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

type profileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	files       FileDeleter
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository, files FileDeleter) ProfileService {
	return &profileService{profileRepo: profileRepo, userRepo: userRepo, files: files}
}

// Create adds the caller's creator profile. Each creator has at most one.
func (s *profileService) Create(ctx context.Context, caller domain.Principal, in ProfileInput) (*domain.CreatorProfile, error) {
	logger.EnterMethod("profileService.Create", "userID", caller.PrincipalID())
	if _, ok := caller.(domain.Creator); !ok {
		return nil, domain.Forbidden("Only creators have profiles")
	}

	_, err := s.profileRepo.GetByUserID(ctx, caller.PrincipalID())
	switch {
	case err == nil:
		return nil, domain.BadRequest(domain.CodeProfileExists, "Profile already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	profile := &domain.CreatorProfile{
		UserID:     caller.PrincipalID(),
		Name:       in.Name,
		Languages:  in.Languages,
		Categories: in.Categories,
		CreatingAs: in.CreatingAs,
		Image:      in.Image,
		About:      in.About,
		Portfolio:  in.Portfolio,
		Instagram:  in.Instagram,
		Pinterest:  in.Pinterest,
		Facebook:   in.Facebook,
		TikTok:     in.TikTok,
		YouTube:    in.YouTube,
		Published:  in.Published,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		logger.ExitMethodWithError("profileService.Create", err, "userID", caller.PrincipalID())
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	logger.ExitMethod("profileService.Create", "profileID", profile.ID)
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, caller domain.Principal, in ProfilePatch) (*domain.CreatorProfile, error) {
	logger.EnterMethod("profileService.Update", "userID", caller.PrincipalID())
	profile, err := s.profileRepo.GetByUserID(ctx, caller.PrincipalID())
	if err != nil {
		return nil, notFoundOr(err, "Profile not found")
	}

	setString(&profile.Name, in.Name)
	setString(&profile.About, in.About)
	setString(&profile.Portfolio, in.Portfolio)
	setString(&profile.Instagram, in.Instagram)
	setString(&profile.Pinterest, in.Pinterest)
	setString(&profile.Facebook, in.Facebook)
	setString(&profile.TikTok, in.TikTok)
	setString(&profile.YouTube, in.YouTube)
	if in.Languages != nil {
		profile.Languages = in.Languages
	}
	if in.Categories != nil {
		profile.Categories = in.Categories
	}
	if in.CreatingAs != nil {
		profile.CreatingAs = in.CreatingAs
	}
	if in.Published != nil {
		profile.Published = *in.Published
	}
	var oldImage string
	if in.Image != nil && *in.Image != profile.Image {
		oldImage = profile.Image
		profile.Image = *in.Image
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		logger.ExitMethodWithError("profileService.Update", err, "profileID", profile.ID)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	removeFile(ctx, s.files, oldImage)
	logger.ExitMethod("profileService.Update", "profileID", profile.ID)
	return profile, nil
}

// FindByUser returns a creator's profile to anyone allowed to see that user.
func (s *profileService) FindByUser(ctx context.Context, caller domain.Principal, userID int32) (*domain.CreatorProfile, error) {
	if caller.PrincipalID() != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, notFoundOr(err, "Profile not found")
		}
		if user.IsArchived {
			return nil, domain.NotFound("Profile not found")
		}
		if !authz.CoversUser(caller, user) {
			return nil, domain.Forbidden("You do not have access to this profile")
		}
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Profile not found")
	}
	return profile, nil
}
