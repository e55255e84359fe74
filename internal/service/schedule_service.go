package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terp-tools/terp-scheduler-api/internal/dto"
	"github.com/terp-tools/terp-scheduler-api/internal/engine"
	"github.com/terp-tools/terp-scheduler-api/internal/models"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
	"github.com/terp-tools/terp-scheduler-api/pkg/export"
	"github.com/terp-tools/terp-scheduler-api/pkg/storage"
)

// SectionSource lists the offered sections for a course.
type SectionSource interface {
	ListSections(ctx context.Context, courseCode, term string) ([]models.Section, error)
}

// SectionEnricher fills professor rating data onto fetched sections.
type SectionEnricher interface {
	EnrichSections(ctx context.Context, sections []models.Section)
}

// ScheduleServiceConfig governs generation and result retention behaviour.
type ScheduleServiceConfig struct {
	DefaultMaxSchedules int
	MaxSchedulesCap     int
	CandidateCeiling    int
	ResultTTL           time.Duration
	FetchTimeout        time.Duration
}

// ScheduleService orchestrates the generation pipeline: fetch sections per
// course, enrich them with professor data, run the engine, and retain the
// ranked result for retrieval and export.
type ScheduleService struct {
	sections  SectionSource
	enricher  SectionEnricher
	engine    *engine.Engine
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleServiceConfig
	store     *resultStore

	pdf     *export.PDFExporter
	csv     *export.CSVExporter
	files   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	baseURL string
}

// NewScheduleService wires the generation pipeline.
func NewScheduleService(
	sections SectionSource,
	enricher SectionEnricher,
	metrics *MetricsService,
	files *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	cfg ScheduleServiceConfig,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMaxSchedules <= 0 {
		cfg.DefaultMaxSchedules = 5
	}
	if cfg.MaxSchedulesCap <= 0 {
		cfg.MaxSchedulesCap = 20
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 30 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}

	return &ScheduleService{
		sections:  sections,
		enricher:  enricher,
		engine:    engine.New(engine.Config{CandidateCeiling: cfg.CandidateCeiling, Logger: logger}),
		metrics:   metrics,
		validator: validator.New(),
		logger:    logger,
		cfg:       cfg,
		store:     newResultStore(cfg.ResultTTL),
		pdf:       export.NewPDFExporter(),
		csv:       export.NewCSVExporter(),
		files:     files,
		signer:    signer,
	}
}

// Generate builds ranked schedules for the requested courses.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*models.ScheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	courses, err := normalizeCourses(req.Courses)
	if err != nil {
		return nil, err
	}

	maxSchedules := req.MaxSchedules
	if maxSchedules <= 0 {
		maxSchedules = s.cfg.DefaultMaxSchedules
	}
	if maxSchedules > s.cfg.MaxSchedulesCap {
		maxSchedules = s.cfg.MaxSchedulesCap
	}

	prefs := req.Preferences.Resolve()
	available := s.fetchSections(ctx, courses, req.Term)

	all := make([]models.Section, 0)
	for _, sections := range available {
		all = append(all, sections...)
	}
	s.enricher.EnrichSections(ctx, all)
	// EnrichSections mutates the flattened copy; fold the data back.
	byKey := make(map[string]models.Section, len(all))
	for _, section := range all {
		byKey[section.CourseCode+"|"+section.SectionNumber] = section
	}
	for course, sections := range available {
		for i := range sections {
			if enriched, ok := byKey[sections[i].CourseCode+"|"+sections[i].SectionNumber]; ok {
				sections[i] = enriched
			}
		}
		available[course] = sections
	}

	start := time.Now()
	schedules, stats, err := s.engine.Generate(courses, available, prefs, maxSchedules)
	duration := time.Since(start)
	s.metrics.ObserveGeneration(stats, duration)
	if err != nil {
		if errors.Is(err, engine.ErrSearchSpaceExceeded) {
			return nil, appErrors.Clone(appErrors.ErrSearchSpace, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
	}

	result := &models.ScheduleResult{
		ID:              uuid.NewString(),
		Term:            req.Term,
		RequiredCourses: courses,
		Preferences:     prefs,
		Schedules:       schedules,
		GeneratedAt:     time.Now().UTC(),
	}
	s.store.Save(*result)

	s.logger.Info("schedules generated",
		zap.String("result_id", result.ID),
		zap.Strings("courses", courses),
		zap.Int("candidates", stats.Candidates),
		zap.Int("valid", stats.Valid),
		zap.Int("returned", stats.Returned),
		zap.Duration("duration", duration))

	return result, nil
}

// Get returns a previously generated result.
func (s *ScheduleService) Get(id string) (*models.ScheduleResult, error) {
	result, ok, expired := s.store.Get(id)
	if expired {
		return nil, appErrors.Clone(appErrors.ErrExpired, fmt.Sprintf("schedule result %s expired", id))
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule result %s not found", id))
	}
	return &result, nil
}

// Delete discards a previously generated result.
func (s *ScheduleService) Delete(id string) error {
	if !s.store.Delete(id) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule result %s not found", id))
	}
	return nil
}

// Export renders a stored result into the requested format and returns a
// signed download token.
func (s *ScheduleService) Export(ctx context.Context, id string, req dto.ExportScheduleRequest) (*dto.ExportScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if s.files == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export storage not configured")
	}

	result, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch req.Format {
	case "pdf":
		data, err = s.pdf.Render(result)
	case "csv":
		data, err = s.csv.Render(result)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	relPath := fmt.Sprintf("schedules/%s.%s", result.ID, req.Format)
	if _, err := s.files.Save(relPath, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store export")
	}

	token, expiresAt, err := s.signer.Generate(result.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign export token")
	}

	return &dto.ExportScheduleResponse{
		Token:     token,
		URL:       "/exports/download?token=" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveDownload validates a signed token and opens the referenced export
// file.
func (s *ScheduleService) ResolveDownload(token string) (*os.File, string, error) {
	if s.files == nil || s.signer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrInternal, "export storage not configured")
	}

	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		if err.Error() == "token expired" {
			return nil, "", appErrors.Clone(appErrors.ErrExpired, "download link expired")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}

	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

// fetchSections pulls sections for every course concurrently. A failed fetch
// logs and leaves that course with no sections, which the engine reports as
// infeasible rather than failing the whole request.
func (s *ScheduleService) fetchSections(ctx context.Context, courses []string, term string) map[string][]models.Section {
	available := make(map[string][]models.Section, len(courses))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, course := range courses {
		wg.Add(1)
		go func(course string) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			sections, err := s.sections.ListSections(fetchCtx, course, term)
			if err != nil {
				s.logger.Warn("section fetch failed",
					zap.String("course", course), zap.Error(err))
				sections = nil
			}
			mu.Lock()
			available[course] = sections
			mu.Unlock()
		}(course)
	}

	wg.Wait()
	return available
}

func normalizeCourses(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	courses := make([]string, 0, len(raw))
	for _, entry := range raw {
		code := models.NormalizeCourseCode(entry)
		if !models.ValidCourseCode(code) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid course code %q", entry))
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		courses = append(courses, code)
	}
	return courses, nil
}

type storedResult struct {
	result  models.ScheduleResult
	savedAt time.Time
}

// resultStore retains generated results in memory until their TTL lapses.
type resultStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]storedResult
}

func newResultStore(ttl time.Duration) *resultStore {
	return &resultStore{
		ttl:   ttl,
		items: make(map[string]storedResult),
	}
}

func (s *resultStore) Save(result models.ScheduleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[result.ID] = storedResult{result: result, savedAt: time.Now()}
}

// Get reports (result, found, expired). Expired entries are evicted on read.
func (s *resultStore) Get(id string) (models.ScheduleResult, bool, bool) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return models.ScheduleResult{}, false, false
	}
	if time.Since(item.savedAt) > s.ttl {
		s.Delete(id)
		return models.ScheduleResult{}, false, true
	}
	return item.result, true, false
}

func (s *resultStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}
