package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
)

// ExamVersionRepository handles exam version, module and question data access.
type ExamVersionRepository struct {
	pool *pgxpool.Pool
}

// NewExamVersionRepository creates a new ExamVersionRepository.
func NewExamVersionRepository(pool *pgxpool.Pool) *ExamVersionRepository {
	return &ExamVersionRepository{pool: pool}
}

// GetByID retrieves an exam version.
func (r *ExamVersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamVersion, error) {
	v := &model.ExamVersion{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, status, created_by, created_at, updated_at
		 FROM exam_versions WHERE id = $1`, id,
	).Scan(&v.ID, &v.Title, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create inserts a new DRAFT exam version.
func (r *ExamVersionRepository) Create(ctx context.Context, v *model.ExamVersion) error {
	v.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_versions (id, title, status, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		v.ID, v.Title, model.ExamVersionStatusDraft, v.CreatedBy,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

// UpdateStatus transitions a version's status with a current-status guard.
func (r *ExamVersionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ExamVersionStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_versions SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// List retrieves exam versions, newest first.
func (r *ExamVersionRepository) List(ctx context.Context, page, perPage int) ([]model.ExamVersion, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exam_versions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, title, status, created_by, created_at, updated_at
		 FROM exam_versions
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var versions []model.ExamVersion
	for rows.Next() {
		var v model.ExamVersion
		if err := rows.Scan(&v.ID, &v.Title, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		versions = append(versions, v)
	}
	return versions, total, rows.Err()
}

// ListPublishedIDs returns the IDs of all PUBLISHED versions.
// Used for cache prewarming on application startup.
func (r *ExamVersionRepository) ListPublishedIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM exam_versions WHERE status = $1`, model.ExamVersionStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddModule appends a module to a version.
func (r *ExamVersionRepository) AddModule(ctx context.Context, m *model.ExamModule) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exam_modules (id, exam_version_id, title, position, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ExamVersionID, m.Title, m.Position, m.DurationSeconds)
	return err
}

// AddQuestion inserts a question with its options, then points the question at
// the correct option. Runs in its own transaction because of the circular
// question → option reference.
func (r *ExamVersionRepository) AddQuestion(ctx context.Context, q *model.Question, correctIdx int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q.ID = uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO questions (id, module_id, question_text, position, points)
		 VALUES ($1, $2, $3, $4, $5)`,
		q.ID, q.ModuleID, q.QuestionText, q.Position, q.Points,
	); err != nil {
		return err
	}

	for i := range q.Options {
		opt := &q.Options[i]
		opt.ID = uuid.New()
		opt.QuestionID = q.ID
		opt.Position = i
		if _, err := tx.Exec(ctx,
			`INSERT INTO question_options (id, question_id, label, position)
			 VALUES ($1, $2, $3, $4)`,
			opt.ID, opt.QuestionID, opt.Label, opt.Position,
		); err != nil {
			return err
		}
	}

	correctID := q.Options[correctIdx].ID
	q.CorrectOptionID = &correctID
	if _, err := tx.Exec(ctx,
		`UPDATE questions SET correct_option_id = $2 WHERE id = $1`,
		q.ID, correctID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetDefinition assembles the fully resolved version: ordered modules with
// their ordered questions and options, correct option included.
func (r *ExamVersionRepository) GetDefinition(ctx context.Context, id uuid.UUID) (*model.ExamDefinition, error) {
	version, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	modRows, err := r.pool.Query(ctx,
		`SELECT id, exam_version_id, title, position, duration_seconds
		 FROM exam_modules WHERE exam_version_id = $1
		 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer modRows.Close()

	def := &model.ExamDefinition{ExamVersion: *version}
	for modRows.Next() {
		var m model.ExamModule
		if err := modRows.Scan(&m.ID, &m.ExamVersionID, &m.Title, &m.Position, &m.DurationSeconds); err != nil {
			return nil, err
		}
		def.Modules = append(def.Modules, model.ModuleWithBank{Module: m})
	}
	if err := modRows.Err(); err != nil {
		return nil, err
	}

	for i := range def.Modules {
		questions, err := r.listQuestions(ctx, def.Modules[i].Module.ID)
		if err != nil {
			return nil, err
		}
		def.Modules[i].Questions = questions
	}

	return def, nil
}

func (r *ExamVersionRepository) listQuestions(ctx context.Context, moduleID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, module_id, question_text, position, points, correct_option_id
		 FROM questions WHERE module_id = $1
		 ORDER BY position ASC`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ModuleID, &q.QuestionText, &q.Position, &q.Points, &q.CorrectOptionID); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		optRows, err := r.pool.Query(ctx,
			`SELECT id, question_id, label, position
			 FROM question_options WHERE question_id = $1
			 ORDER BY position ASC`, questions[i].ID)
		if err != nil {
			return nil, err
		}
		for optRows.Next() {
			var o model.QuestionOption
			if err := optRows.Scan(&o.ID, &o.QuestionID, &o.Label, &o.Position); err != nil {
				optRows.Close()
				return nil, err
			}
			questions[i].Options = append(questions[i].Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return nil, err
		}
		optRows.Close()
	}

	return questions, nil
}
