package services

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/cache"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

const (
	availabilityDays      = 7
	availabilityDayStart  = 9
	availabilityDayEnd    = 17
	availabilitySlotOdds  = 0.45
	availabilitySlotHours = 1
)

// AvailabilityService generates a deterministic stand-in for real mentor
// availability: a seeded PRNG keyed by the mentor id, so every caller sees
// the same weekly slots. It carries no scheduling invariants.
type AvailabilityService struct {
	cache    *cache.Client
	cacheTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewAvailabilityService(cacheClient *cache.Client, cacheTTL time.Duration, log zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

func (s *AvailabilityService) WeeklyAvailability(
	ctx context.Context,
	mentorID int64,
) []models.AvailabilitySlot {
	if cached, ok := s.readCache(ctx, mentorID); ok {
		return cached
	}

	weekStart := startOfDay(s.now().UTC()).AddDate(0, 0, 1)
	slots := generateAvailability(mentorID, weekStart)

	s.writeCache(ctx, mentorID, slots)
	return slots
}

// generateAvailability is deterministic in (mentorID, weekStart).
func generateAvailability(mentorID int64, weekStart time.Time) []models.AvailabilitySlot {
	rng := rand.New(rand.NewSource(availabilitySeed(mentorID, weekStart)))

	slots := make([]models.AvailabilitySlot, 0)
	for day := 0; day < availabilityDays; day++ {
		dayStart := weekStart.AddDate(0, 0, day)
		for hour := availabilityDayStart; hour < availabilityDayEnd; hour += availabilitySlotHours {
			if rng.Float64() >= availabilitySlotOdds {
				continue
			}
			start := dayStart.Add(time.Duration(hour) * time.Hour)
			slots = append(slots, models.AvailabilitySlot{
				Start: start,
				End:   start.Add(time.Duration(availabilitySlotHours) * time.Hour),
			})
		}
	}

	return slots
}

func availabilitySeed(mentorID int64, weekStart time.Time) int64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(strconv.FormatInt(mentorID, 10)))
	_, _ = hasher.Write([]byte(weekStart.Format("2006-01-02")))
	return int64(hasher.Sum64())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Cache reads and writes fail open: a broken or absent redis never blocks
// availability responses.
func (s *AvailabilityService) readCache(ctx context.Context, mentorID int64) ([]models.AvailabilitySlot, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, cache.AvailabilityKey(mentorID)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []models.AvailabilitySlot
	if err := json.Unmarshal(payload, &slots); err != nil {
		s.log.Warn().Err(err).Int64("mentor_id", mentorID).Msg("discarding corrupt availability cache entry")
		return nil, false
	}
	return slots, true
}

func (s *AvailabilityService) writeCache(ctx context.Context, mentorID int64, slots []models.AvailabilitySlot) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.AvailabilityKey(mentorID), payload, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Int64("mentor_id", mentorID).Msg("failed to cache availability")
	}
}
