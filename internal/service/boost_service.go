package service

import (
	"context"
	"math/rand"
	"time"

	"mood-booster/internal/model"
	"mood-booster/internal/repository"
)

// DailyBoost bundles today's mood entry with a motivational quote.
type DailyBoost struct {
	Mood  *model.DailyMood `json:"mood"`
	Quote *model.Quote     `json:"quote"`
}

// BoostService serves the read-only daily boost content.
type BoostService struct {
	boostRepo *repository.BoostRepository
}

func NewBoostService(boostRepo *repository.BoostRepository) *BoostService {
	return &BoostService{boostRepo: boostRepo}
}

// Boost returns the mood recorded for now's calendar day and a random active
// quote. Either may be nil.
func (s *BoostService) Boost(ctx context.Context, now time.Time) (*DailyBoost, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	mood, err := s.boostRepo.MoodByDate(ctx, midnight)
	if err != nil {
		return nil, err
	}

	quotes, err := s.boostRepo.ActiveQuotes(ctx)
	if err != nil {
		return nil, err
	}

	var quote *model.Quote
	if len(quotes) > 0 {
		quote = &quotes[rand.Intn(len(quotes))]
	}

	return &DailyBoost{Mood: mood, Quote: quote}, nil
}
