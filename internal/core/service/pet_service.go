package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/huellitas/vetrecords/internal/api/metrics"
	"github.com/huellitas/vetrecords/internal/core/clinical"
	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

type PetService struct {
	repo   ports.PetRepository
	visits ports.VisitSerializer
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

// NewPetService returns a PetService. Visit dates are rendered in loc.
func NewPetService(repo ports.PetRepository, visits ports.VisitSerializer, loc *time.Location, logger zerolog.Logger) *PetService {
	if loc == nil {
		loc = time.UTC
	}
	return &PetService{repo: repo, visits: visits, loc: loc, now: time.Now, logger: logger}
}

func (s *PetService) Create(ctx context.Context, profile domain.PetProfile) (*domain.Pet, error) {
	profile = trimProfile(profile)
	if profile.Name == "" || profile.Species == "" {
		return nil, domain.ErrMissingFields
	}
	pet, err := s.repo.Create(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create pet")
		return nil, err
	}
	s.logger.Info().Str("pet_id", pet.ID).Str("name", pet.Name).Msg("pet created")
	return pet, nil
}

func (s *PetService) Get(ctx context.Context, id string) (*domain.Pet, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PetService) List(ctx context.Context, filter domain.PetFilter) ([]*domain.Pet, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Species = strings.TrimSpace(filter.Species)
	return s.repo.List(ctx, filter)
}

// UpdateProfile changes the non-clinical fields of a pet.
func (s *PetService) UpdateProfile(ctx context.Context, id string, profile domain.PetProfile) (*domain.Pet, error) {
	profile = trimProfile(profile)
	if profile.Name == "" || profile.Species == "" {
		return nil, domain.ErrMissingFields
	}
	if err := s.repo.UpdateProfile(ctx, id, profile); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *PetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("pet_id", id).Msg("pet deleted")
	return nil
}

// History returns the pet with its accumulated clinical record.
func (s *PetService) History(ctx context.Context, id string) (*domain.Pet, error) {
	return s.repo.FindByID(ctx, id)
}

// RecordVisit appends a visit to the pet's clinical history. Visits for the
// same pet are serialized, and the write is rejected with
// domain.ErrConcurrentVisit if the history changed since it was read.
// Nothing is retried: replaying an append could duplicate entries.
func (s *PetService) RecordVisit(ctx context.Context, caller domain.SessionIdentity, id string, visit clinical.Visit) (*domain.Pet, error) {
	if visit.Empty() {
		return nil, domain.ErrEmptyVisit
	}

	start := time.Now()
	var updated *domain.Pet
	err := s.visits.Do(ctx, id, func(ctx context.Context) error {
		pet, version, err := s.repo.FindWithVersion(ctx, id)
		if err != nil {
			return err
		}

		date := clinical.VisitDate(s.now(), s.loc)
		pet.History = clinical.AppendVisit(pet.History, visit, date)
		if err := s.repo.UpdateHistory(ctx, id, pet.History, version); err != nil {
			return err
		}
		updated = pet
		return nil
	})
	metrics.VisitProcessingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrentVisit):
			metrics.ClinicalVisitsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, domain.ErrPetNotFound):
			metrics.ClinicalVisitsTotal.WithLabelValues("not_found").Inc()
		default:
			metrics.ClinicalVisitsTotal.WithLabelValues("error").Inc()
		}
		s.logger.Warn().Err(err).Str("pet_id", id).Str("veterinarian", caller.Username).Msg("visit not recorded")
		return nil, err
	}

	metrics.ClinicalVisitsTotal.WithLabelValues("recorded").Inc()
	s.logger.Info().
		Str("pet_id", id).
		Str("recorded_by", caller.Username).
		Int("visits", updated.History.Visits()).
		Msg("clinical visit recorded")
	return updated, nil
}

func trimProfile(p domain.PetProfile) domain.PetProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.Species = strings.TrimSpace(p.Species)
	p.Breed = strings.TrimSpace(p.Breed)
	p.Owner = strings.TrimSpace(p.Owner)
	return p
}
