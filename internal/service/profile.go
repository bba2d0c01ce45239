package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/imaging"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/store"
)

// ProfileService manages the singleton profile record and its remote assets.
type ProfileService struct {
	queries *store.Queries
	images  imagehost.Client
}

// NewProfileService creates a ProfileService.
func NewProfileService(db *sql.DB, images imagehost.Client) *ProfileService {
	return &ProfileService{queries: store.New(db), images: images}
}

// Get returns the profile. The row is normally created at startup by the seed
// step; if it is somehow absent, it is created here with defaults so a first
// read never fails.
func (s *ProfileService) Get(ctx context.Context) (model.Profile, error) {
	profile, err := s.queries.GetProfile(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return s.queries.EnsureProfile(ctx, model.DefaultProfile())
	}
	return profile, err
}

// UpdateProfileInput holds partial fields for a profile update. Nil pointers
// leave the current value untouched; a non-empty Picture replaces the remote
// picture asset.
type UpdateProfileInput struct {
	Name         *string
	Title        *string
	Subtitle     *string
	Bio          *string
	ContactEmail *string
	Github       *string
	Linkedin     *string
	Twitter      *string
	Website      *string
	Instagram    *string
	Picture      []byte
}

// Update applies the provided fields to the profile.
func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (model.Profile, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return model.Profile{}, err
	}

	fields := fieldErrors{}
	if input.Name != nil {
		fields.requireNonEmpty("name", *input.Name, "Name is required")
	}
	if input.Title != nil {
		fields.requireNonEmpty("title", *input.Title, "Title is required")
	}
	if input.ContactEmail != nil && !IsValidEmail(*input.ContactEmail) {
		fields["contact_email"] = "Contact email must be a valid address"
	}
	if err := fields.toError(); err != nil {
		return model.Profile{}, err
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Title != nil {
		current.Title = *input.Title
	}
	if input.Subtitle != nil {
		current.Subtitle = *input.Subtitle
	}
	if input.Bio != nil {
		current.Bio = *input.Bio
	}
	if input.ContactEmail != nil {
		current.ContactEmail = *input.ContactEmail
	}
	if input.Github != nil {
		current.SocialLinks.Github = *input.Github
	}
	if input.Linkedin != nil {
		current.SocialLinks.Linkedin = *input.Linkedin
	}
	if input.Twitter != nil {
		current.SocialLinks.Twitter = *input.Twitter
	}
	if input.Website != nil {
		current.SocialLinks.Website = *input.Website
	}
	if input.Instagram != nil {
		current.SocialLinks.Instagram = *input.Instagram
	}

	if len(input.Picture) > 0 {
		if err := imaging.Validate(input.Picture); err != nil {
			return model.Profile{}, &ValidationError{Fields: map[string]string{
				"picture": "File is not a supported image",
			}}
		}
		// Profile pictures upload untransformed.
		asset, err := imagehost.Replace(ctx, s.images, current.PictureAssetID, input.Picture, imagehost.FolderProfile, "")
		if err != nil {
			return model.Profile{}, err
		}
		current.Picture = asset.URL
		current.PictureAssetID = asset.ID
	}

	updated, err := s.queries.UpdateProfile(ctx, current)
	if err != nil {
		return model.Profile{}, fmt.Errorf("updating profile: %w", err)
	}
	return updated, nil
}

// UploadResume replaces the profile's resume asset with the uploaded file and
// returns the updated profile.
func (s *ProfileService) UploadResume(ctx context.Context, data []byte) (model.Profile, error) {
	if len(data) == 0 {
		return model.Profile{}, &ValidationError{Fields: map[string]string{
			"resume": "Please upload a file",
		}}
	}

	current, err := s.Get(ctx)
	if err != nil {
		return model.Profile{}, err
	}

	asset, err := imagehost.Replace(ctx, s.images, current.ResumeAssetID, data, imagehost.FolderResume, "")
	if err != nil {
		return model.Profile{}, err
	}

	current.ResumeURL = asset.URL
	current.ResumeAssetID = asset.ID

	updated, err := s.queries.UpdateProfile(ctx, current)
	if err != nil {
		return model.Profile{}, fmt.Errorf("updating profile: %w", err)
	}
	return updated, nil
}
