package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

func TestProfileService_UpdateAppliesPatch(t *testing.T) {
	var gotID string
	var gotPatch ports.ProfilePatch
	profiles := &profileRepoStub{
		update: func(_ context.Context, id string, patch ports.ProfilePatch) (*domain.Profile, error) {
			gotID, gotPatch = id, patch
			return &domain.Profile{ID: id, Name: *patch.Name}, nil
		},
	}
	svc := NewProfileService(profiles, zerolog.Nop())

	name := "Ravi K."
	updated, err := svc.Update(context.Background(), "u1", ports.ProfilePatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotID != "u1" || gotPatch.Name == nil || *gotPatch.Name != "Ravi K." {
		t.Fatalf("patch not forwarded: id=%q patch=%+v", gotID, gotPatch)
	}
	if updated.Name != "Ravi K." {
		t.Fatalf("unexpected result %+v", updated)
	}
}

func TestProfileService_UpdateUnknownUser(t *testing.T) {
	svc := NewProfileService(&profileRepoStub{}, zerolog.Nop())

	_, err := svc.Update(context.Background(), "ghost", ports.ProfilePatch{})
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
