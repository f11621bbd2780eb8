package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

// ProfileService handles profile self-service edits. The role is never
// touched through this surface.
type ProfileService struct {
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewProfileService(profiles ports.ProfileRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, log: log}
}

func (s *ProfileService) Update(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.Profile, error) {
	updated, err := s.profiles.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}
