package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// ExamService manages exam versions: authoring while DRAFT, publish
// validation, and the Redis cache of published definitions that attempt
// start reads from.
type ExamService struct {
	db           *pgxpool.Pool
	rdb          *redis.Client
	versionRepo  *repository.ExamVersionRepository
	auditService *AuditService
}

// NewExamService creates a new ExamService.
func NewExamService(db *pgxpool.Pool, rdb *redis.Client, versionRepo *repository.ExamVersionRepository, auditService *AuditService) *ExamService {
	return &ExamService{db: db, rdb: rdb, versionRepo: versionRepo, auditService: auditService}
}

// CreateVersion creates a new DRAFT exam version.
func (s *ExamService) CreateVersion(ctx context.Context, req *model.CreateExamVersionRequest, staffID int) (*model.ExamVersion, error) {
	v := &model.ExamVersion{
		ID:        uuid.New(),
		Title:     req.Title,
		Status:    model.ExamVersionStatusDraft,
		CreatedBy: staffID,
	}
	if err := s.versionRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create exam version: %w", err)
	}

	s.auditService.Record(ctx, "exam_version.create", v.ID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	return v, nil
}

// GetVersion returns one exam version header.
func (s *ExamService) GetVersion(ctx context.Context, id uuid.UUID) (*model.ExamVersion, error) {
	v, err := s.versionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListVersions returns a page of exam versions.
func (s *ExamService) ListVersions(ctx context.Context, page, perPage int) ([]model.ExamVersion, int64, error) {
	return s.versionRepo.List(ctx, page, perPage)
}

// AddModule adds a timed section to a DRAFT version.
func (s *ExamService) AddModule(ctx context.Context, versionID uuid.UUID, req *model.AddModuleRequest) (*model.ExamModule, error) {
	if err := s.requireDraft(ctx, versionID); err != nil {
		return nil, err
	}

	m := &model.ExamModule{
		ID:              uuid.New(),
		ExamVersionID:   versionID,
		Title:           req.Title,
		Position:        req.Position,
		DurationSeconds: req.DurationSeconds,
	}
	if err := s.versionRepo.AddModule(ctx, m); err != nil {
		return nil, fmt.Errorf("add module: %w", err)
	}
	return m, nil
}

// AddQuestion adds a single-choice question to a module of a DRAFT version.
func (s *ExamService) AddQuestion(ctx context.Context, versionID, moduleID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if err := s.requireDraft(ctx, versionID); err != nil {
		return nil, err
	}
	if req.CorrectOption >= len(req.Options) {
		return nil, ErrOptionMismatch
	}

	q := &model.Question{
		ID:           uuid.New(),
		ModuleID:     moduleID,
		QuestionText: req.QuestionText,
		Position:     req.Position,
		Points:       req.Points,
	}
	for i, label := range req.Options {
		q.Options = append(q.Options, model.QuestionOption{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Label:      label,
			Position:   i,
		})
	}
	if err := s.versionRepo.AddQuestion(ctx, q, req.CorrectOption); err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}
	return q, nil
}

// Publish validates and publishes a DRAFT version, then caches the resolved
// definition so attempt starts never touch the authoring tables.
func (s *ExamService) Publish(ctx context.Context, versionID uuid.UUID, staffID int) error {
	def, err := s.versionRepo.GetDefinition(ctx, versionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return fmt.Errorf("load definition: %w", err)
	}
	if def.ExamVersion.Status != model.ExamVersionStatusDraft {
		return ErrExamNotDraft
	}
	if err := validateDefinition(def); err != nil {
		return err
	}

	ok, err := s.versionRepo.UpdateStatus(ctx, versionID, model.ExamVersionStatusDraft, model.ExamVersionStatusPublished)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if !ok {
		return ErrExamNotDraft
	}

	def.ExamVersion.Status = model.ExamVersionStatusPublished
	s.cacheDefinition(ctx, def)

	s.auditService.Record(ctx, "exam_version.publish", versionID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	return nil
}

// Archive retires a PUBLISHED version so no new attempts can start on it.
// Running attempts are unaffected: their items were denormalized at start.
func (s *ExamService) Archive(ctx context.Context, versionID uuid.UUID, staffID int) error {
	ok, err := s.versionRepo.UpdateStatus(ctx, versionID, model.ExamVersionStatusPublished, model.ExamVersionStatusArchived)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if !ok {
		return ErrExamNotPublished
	}

	_ = s.rdb.Del(ctx, config.CacheKey.ExamVersionPayloadKey(versionID.String()))
	s.auditService.Record(ctx, "exam_version.archive", versionID.String(), repository.ActorStaff, strconv.Itoa(staffID), nil)
	return nil
}

// GetPublishedDefinition returns the resolved definition of a PUBLISHED
// version, preferring the Redis cache and self-healing on a miss.
func (s *ExamService) GetPublishedDefinition(ctx context.Context, versionID uuid.UUID) (*model.ExamDefinition, error) {
	cacheKey := config.CacheKey.ExamVersionPayloadKey(versionID.String())

	if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var def model.ExamDefinition
		if jsonErr := json.Unmarshal(raw, &def); jsonErr == nil {
			return &def, nil
		}
		// Corrupt payload: drop it and rebuild from PostgreSQL.
		_ = s.rdb.Del(ctx, cacheKey)
	}

	def, err := s.versionRepo.GetDefinition(ctx, versionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def.ExamVersion.Status != model.ExamVersionStatusPublished {
		return nil, ErrExamNotPublished
	}

	s.cacheDefinition(ctx, def)
	return def, nil
}

// GetDefinition returns the resolved definition regardless of status,
// cache-first. Running attempts keep scoring and snapshotting even after
// their version is archived.
func (s *ExamService) GetDefinition(ctx context.Context, versionID uuid.UUID) (*model.ExamDefinition, error) {
	cacheKey := config.CacheKey.ExamVersionPayloadKey(versionID.String())

	if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var def model.ExamDefinition
		if jsonErr := json.Unmarshal(raw, &def); jsonErr == nil {
			return &def, nil
		}
		_ = s.rdb.Del(ctx, cacheKey)
	}

	def, err := s.versionRepo.GetDefinition(ctx, versionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def.ExamVersion.Status == model.ExamVersionStatusPublished {
		s.cacheDefinition(ctx, def)
	}
	return def, nil
}

// PrewarmAllCaches loads every PUBLISHED definition into Redis. Called once
// at startup so the first attempt of the day is as fast as the hundredth.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	ids, err := s.versionRepo.ListPublishedIDs(ctx)
	if err != nil {
		return fmt.Errorf("list published versions: %w", err)
	}

	for _, id := range ids {
		def, err := s.versionRepo.GetDefinition(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("exam_version_id", id.String()).Msg("Failed to prewarm exam version cache")
			continue
		}
		s.cacheDefinition(ctx, def)
	}

	log.Info().Int("count", len(ids)).Msg("Exam version caches prewarmed")
	return nil
}

func (s *ExamService) cacheDefinition(ctx context.Context, def *model.ExamDefinition) {
	raw, err := json.Marshal(def)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal exam definition for cache")
		return
	}
	key := config.CacheKey.ExamVersionPayloadKey(def.ExamVersion.ID.String())
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache exam definition")
	}
}

func (s *ExamService) requireDraft(ctx context.Context, versionID uuid.UUID) error {
	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return err
	}
	if v.Status != model.ExamVersionStatusDraft {
		return ErrExamNotDraft
	}
	return nil
}

// validateDefinition enforces publish invariants: at least one module, every
// module has at least one question, every question has at least two options
// and exactly one marked correct.
func validateDefinition(def *model.ExamDefinition) error {
	if len(def.Modules) == 0 || def.QuestionCount() == 0 {
		return ErrExamEmpty
	}
	for _, m := range def.Modules {
		if len(m.Questions) == 0 {
			return ErrExamEmpty
		}
		if m.Module.DurationSeconds <= 0 {
			return ErrExamInvalid
		}
		for _, q := range m.Questions {
			if len(q.Options) < 2 || q.CorrectOptionID == nil {
				return ErrExamInvalid
			}
			found := false
			for _, o := range q.Options {
				if o.ID == *q.CorrectOptionID {
					found = true
					break
				}
			}
			if !found {
				return ErrExamInvalid
			}
		}
	}
	return nil
}
