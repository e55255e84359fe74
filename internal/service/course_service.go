package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
)

// CatalogSource abstracts the upstream course catalog.
type CatalogSource interface {
	ListCourses(ctx context.Context, term, department string) ([]models.Course, error)
	GetCourse(ctx context.Context, courseCode string) (*models.Course, error)
	ListSections(ctx context.Context, courseCode, term string) ([]models.Section, error)
}

// CourseServiceConfig tunes catalog cache TTLs.
type CourseServiceConfig struct {
	CourseTTL  time.Duration
	SectionTTL time.Duration
}

// CourseService proxies the course catalog with a read-through cache.
type CourseService struct {
	catalog CatalogSource
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     CourseServiceConfig
}

// NewCourseService constructs a course service.
func NewCourseService(catalog CatalogSource, cache *CacheService, metrics *MetricsService, cfg CourseServiceConfig, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CourseTTL <= 0 {
		cfg.CourseTTL = time.Hour
	}
	if cfg.SectionTTL <= 0 {
		cfg.SectionTTL = 15 * time.Minute
	}
	return &CourseService{catalog: catalog, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// ListCourses returns catalog entries filtered by term and department.
func (s *CourseService) ListCourses(ctx context.Context, term, department string) ([]models.Course, error) {
	cacheKey := "courses:" + term + ":" + department
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	courses, err := s.catalog.ListCourses(ctx, term, department)
	s.metrics.ObserveUpstream("catalog", time.Since(start))
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, courses, s.cfg.CourseTTL)
	return courses, nil
}

// GetCourse returns one catalog entry by course code.
func (s *CourseService) GetCourse(ctx context.Context, courseCode string) (*models.Course, error) {
	code := models.NormalizeCourseCode(courseCode)
	if !models.ValidCourseCode(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid course code %q", courseCode))
	}

	cacheKey := "course:" + code
	var cached models.Course
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	start := time.Now()
	course, err := s.catalog.GetCourse(ctx, code)
	s.metrics.ObserveUpstream("catalog", time.Since(start))
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, course, s.cfg.CourseTTL)
	return course, nil
}

// ListSections returns the offered sections of a course for a term.
func (s *CourseService) ListSections(ctx context.Context, courseCode, term string) ([]models.Section, error) {
	code := models.NormalizeCourseCode(courseCode)
	if !models.ValidCourseCode(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid course code %q", courseCode))
	}

	cacheKey := sectionCacheKey(code, term)
	var cached []models.Section
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	sections, err := s.catalog.ListSections(ctx, code, term)
	s.metrics.ObserveUpstream("catalog", time.Since(start))
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, sections, s.cfg.SectionTTL)
	return sections, nil
}

func sectionCacheKey(code, term string) string {
	return "sections:" + term + ":" + code
}
