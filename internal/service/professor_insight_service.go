package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/terp-tools/terp-scheduler-api/internal/client"
	"github.com/terp-tools/terp-scheduler-api/internal/models"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
	"github.com/terp-tools/terp-scheduler-api/pkg/jobs"
)

// RatingsSource abstracts the upstream rating aggregator.
type RatingsSource interface {
	GetProfessor(ctx context.Context, name string) (*client.ProfessorRecord, error)
	GetCourse(ctx context.Context, courseCode string) (*client.CourseRecord, error)
	GetGradeDistribution(ctx context.Context, courseCode, professor string) (client.GradeDistribution, error)
}

// ProfessorRatingStore abstracts local persistence of rating aggregates.
type ProfessorRatingStore interface {
	GetByName(ctx context.Context, name string) (*models.ProfessorRating, error)
	Upsert(ctx context.Context, rating *models.ProfessorRating) error
	ListStale(ctx context.Context, maxAge time.Duration, limit int) ([]models.ProfessorRating, error)
}

// ProfessorInsightConfig tunes lookup and refresh behaviour.
type ProfessorInsightConfig struct {
	RatingTTL       time.Duration
	RefreshInterval time.Duration
	RefreshWorkers  int
}

// ProfessorInsightService serves professor rating and GPA aggregates through
// three tiers: Redis cache, the local Postgres store, then a live fetch from
// the upstream aggregator. Stale store rows are served immediately and
// refreshed in the background.
type ProfessorInsightService struct {
	ratings RatingsSource
	store   ProfessorRatingStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ProfessorInsightConfig

	pool   *jobs.Pool
	stopCh chan struct{}
	once   sync.Once
}

// NewProfessorInsightService constructs the service. The store may be nil
// when the API runs without Postgres; lookups then fall through to the
// upstream aggregator.
func NewProfessorInsightService(ratings RatingsSource, store ProfessorRatingStore, cache *CacheService, metrics *MetricsService, cfg ProfessorInsightConfig, logger *zap.Logger) *ProfessorInsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RatingTTL <= 0 {
		cfg.RatingTTL = 6 * time.Hour
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 24 * time.Hour
	}

	s := &ProfessorInsightService{
		ratings: ratings,
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		stopCh:  make(chan struct{}),
	}
	s.pool = jobs.NewPool("ratings-refresh", s.handleRefreshTask, jobs.PoolConfig{
		Workers: cfg.RefreshWorkers,
		Logger:  logger,
	})
	return s
}

// Start launches the refresh workers and the periodic stale scan. A nil
// store disables the scan since there is nothing to refresh.
func (s *ProfessorInsightService) Start(ctx context.Context) {
	s.pool.Start(ctx)
	if s.store == nil {
		return
	}
	go s.refreshLoop(ctx)
}

// Stop halts the refresh workers.
func (s *ProfessorInsightService) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	s.pool.Stop()
}

// GetInsight returns the rating aggregate for an instructor.
func (s *ProfessorInsightService) GetInsight(ctx context.Context, name string) (*models.ProfessorRating, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor name is required")
	}

	cacheKey := ratingCacheKey(name)
	var cached models.ProfessorRating
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	if s.store != nil {
		stored, err := s.store.GetByName(ctx, name)
		if err != nil {
			s.logger.Warn("rating store lookup failed", zap.String("professor", name), zap.Error(err))
		} else if stored != nil {
			if stored.Stale(s.cfg.RefreshInterval) {
				s.enqueueRefresh(name)
			}
			_ = s.cache.Set(ctx, cacheKey, stored, s.cfg.RatingTTL)
			return stored, nil
		}
	}

	rating, err := s.fetchLive(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Upsert(ctx, rating); err != nil {
			s.logger.Warn("rating store upsert failed", zap.String("professor", name), zap.Error(err))
		}
	}
	_ = s.cache.Set(ctx, cacheKey, rating, s.cfg.RatingTTL)
	return rating, nil
}

// EnrichSections fills in professor rating and GPA data on the given
// sections. Lookup failures leave the section's professor at zero values so
// the scorer falls back to its neutral defaults.
func (s *ProfessorInsightService) EnrichSections(ctx context.Context, sections []models.Section) {
	memo := make(map[string]*models.ProfessorRating)
	for i := range sections {
		name := sections[i].Professor.Name
		if name == "" {
			continue
		}
		rating, seen := memo[name]
		if !seen {
			var err error
			rating, err = s.GetInsight(ctx, name)
			if err != nil {
				s.logger.Debug("professor insight unavailable",
					zap.String("professor", name), zap.Error(err))
				rating = nil
			}
			memo[name] = rating
		}
		if rating == nil {
			continue
		}
		sections[i].Professor.AggregatedScore = rating.AggregatedScore
		sections[i].Professor.AverageGPA = rating.AverageGPA
	}
}

// GetCourseInsight returns the historical grade aggregate for a course.
func (s *ProfessorInsightService) GetCourseInsight(ctx context.Context, courseCode string) (*models.CourseInsight, error) {
	code := models.NormalizeCourseCode(courseCode)
	if !models.ValidCourseCode(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid course code %q", courseCode))
	}

	cacheKey := "course-insight:" + code
	var cached models.CourseInsight
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	start := time.Now()
	record, err := s.ratings.GetCourse(ctx, code)
	s.metrics.ObserveUpstream("ratings", time.Since(start))
	if err != nil {
		return nil, err
	}

	insight := &models.CourseInsight{
		CourseCode:  code,
		Title:       record.Title,
		Description: record.Description,
		Credits:     record.Credits,
		AverageGPA:  record.AverageGPA,
	}

	// The course record's GPA field is sparse upstream; the grade rows are the
	// better source when present.
	if dist, err := s.ratings.GetGradeDistribution(ctx, code, ""); err == nil {
		if gpa := dist.AverageGPA(); gpa > 0 {
			insight.AverageGPA = gpa
		}
	}

	_ = s.cache.Set(ctx, cacheKey, insight, s.cfg.RatingTTL)
	return insight, nil
}

func (s *ProfessorInsightService) fetchLive(ctx context.Context, name string) (*models.ProfessorRating, error) {
	start := time.Now()
	record, err := s.ratings.GetProfessor(ctx, name)
	s.metrics.ObserveUpstream("ratings", time.Since(start))
	if err != nil {
		return nil, err
	}

	rating := &models.ProfessorRating{
		Name:            record.Name,
		AggregatedScore: record.AverageRating,
		FetchedAt:       time.Now().UTC(),
	}

	dist, err := s.ratings.GetGradeDistribution(ctx, "", name)
	if err != nil {
		s.logger.Debug("grade distribution unavailable", zap.String("professor", name), zap.Error(err))
		return rating, nil
	}
	rating.AverageGPA = dist.AverageGPA()
	for _, count := range dist {
		rating.ReviewCount += int(count)
	}
	return rating, nil
}

func (s *ProfessorInsightService) enqueueRefresh(name string) {
	task := jobs.Task{
		ID:      fmt.Sprintf("refresh-%s", name),
		Kind:    "refresh-rating",
		Payload: name,
	}
	if err := s.pool.Submit(task); err != nil {
		s.logger.Debug("refresh enqueue failed", zap.String("professor", name), zap.Error(err))
	}
}

func (s *ProfessorInsightService) handleRefreshTask(ctx context.Context, task jobs.Task) error {
	name, ok := task.Payload.(string)
	if !ok || name == "" {
		return nil
	}

	rating, err := s.fetchLive(ctx, name)
	if err != nil {
		return fmt.Errorf("refresh rating for %s: %w", name, err)
	}
	if s.store != nil {
		if err := s.store.Upsert(ctx, rating); err != nil {
			return fmt.Errorf("persist refreshed rating for %s: %w", name, err)
		}
	}
	_ = s.cache.Set(ctx, ratingCacheKey(name), rating, s.cfg.RatingTTL)
	return nil
}

func (s *ProfessorInsightService) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.scanStale(ctx)
		}
	}
}

func (s *ProfessorInsightService) scanStale(ctx context.Context) {
	stale, err := s.store.ListStale(ctx, s.cfg.RefreshInterval, 100)
	if err != nil {
		s.logger.Warn("stale rating scan failed", zap.Error(err))
		return
	}
	for _, rating := range stale {
		s.enqueueRefresh(rating.Name)
	}
}

func ratingCacheKey(name string) string {
	return "rating:" + strings.ToLower(name)
}
