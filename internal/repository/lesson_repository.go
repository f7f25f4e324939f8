package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luxilearn/luxilearn-backend/internal/model"
)

// LessonRepository handles lesson data access, including the nested quizzes
// and exercise rows that are authored together with a lesson.
type LessonRepository struct {
	pool *pgxpool.Pool
}

// NewLessonRepository creates a new LessonRepository.
func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

// ListByCourse retrieves all lessons of a course ordered by order_num,
// without their children.
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, slug, title, content, order_num, created_at, updated_at
		 FROM lessons WHERE course_id = $1
		 ORDER BY order_num`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Slug, &l.Title, &l.Content, &l.OrderNum, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// ListSummariesByCourse returns the lesson summaries of a course: slug, title,
// order, quiz count and exercise presence — what the course payload needs.
func (r *LessonRepository) ListSummariesByCourse(ctx context.Context, courseID uuid.UUID) ([]model.LessonSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.slug, l.title, l.order_num,
		        (SELECT COUNT(*) FROM quizzes q WHERE q.lesson_id = l.id),
		        EXISTS (SELECT 1 FROM exercises e WHERE e.lesson_id = l.id)
		 FROM lessons l WHERE l.course_id = $1
		 ORDER BY l.order_num`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.LessonSummary
	for rows.Next() {
		var s model.LessonSummary
		if err := rows.Scan(&s.Slug, &s.Title, &s.OrderNum, &s.QuizCount, &s.HasExercise); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetBySlug retrieves one lesson of a course with its quizzes and exercise.
func (r *LessonRepository) GetBySlug(ctx context.Context, courseID uuid.UUID, slug string) (*model.Lesson, error) {
	l := &model.Lesson{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, slug, title, content, order_num, created_at, updated_at
		 FROM lessons WHERE course_id = $1 AND slug = $2`, courseID, slug,
	).Scan(&l.ID, &l.CourseID, &l.Slug, &l.Title, &l.Content, &l.OrderNum, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if l.Quizzes, err = r.ListQuizzes(ctx, l.ID); err != nil {
		return nil, err
	}
	if l.Exercise, err = r.GetExercise(ctx, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// ListQuizzes retrieves a lesson's quizzes ordered by order_num.
func (r *LessonRepository) ListQuizzes(ctx context.Context, lessonID uuid.UUID) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lesson_id, question, options, correct_option, order_num
		 FROM quizzes WHERE lesson_id = $1
		 ORDER BY order_num`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		var options []byte
		if err := rows.Scan(&q.ID, &q.LessonID, &q.Question, &options, &q.CorrectOption, &q.OrderNum); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal quiz options: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetExercise retrieves a lesson's exercise, or nil when the lesson has none.
func (r *LessonRepository) GetExercise(ctx context.Context, lessonID uuid.UUID) (*model.Exercise, error) {
	e := &model.Exercise{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, lesson_id, description, starter_code, solution_code
		 FROM exercises WHERE lesson_id = $1`, lessonID,
	).Scan(&e.ID, &e.LessonID, &e.Description, &e.StarterCode, &e.SolutionCode)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// CreateWithChildren inserts a lesson together with its quizzes and optional
// exercise in a single transaction.
func (r *LessonRepository) CreateWithChildren(ctx context.Context, l *model.Lesson) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO lessons (course_id, slug, title, content, order_num)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		l.CourseID, l.Slug, l.Title, l.Content, l.OrderNum,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertQuizzes(ctx, tx, l.ID, l.Quizzes); err != nil {
		return err
	}

	if l.Exercise != nil {
		l.Exercise.LessonID = l.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO exercises (lesson_id, description, starter_code, solution_code)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			l.ID, l.Exercise.Description, l.Exercise.StarterCode, l.Exercise.SolutionCode,
		).Scan(&l.Exercise.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update modifies a lesson's own fields.
func (r *LessonRepository) Update(ctx context.Context, l *model.Lesson) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE lessons SET title = $1, content = $2, order_num = $3, updated_at = NOW()
		 WHERE id = $4`,
		l.Title, l.Content, l.OrderNum, l.ID)
	return err
}

// Delete removes a lesson; quizzes and exercise cascade.
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	return err
}

// ReplaceQuizzes atomically swaps a lesson's quiz set.
func (r *LessonRepository) ReplaceQuizzes(ctx context.Context, lessonID uuid.UUID, quizzes []model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quizzes WHERE lesson_id = $1`, lessonID); err != nil {
		return err
	}
	if err := insertQuizzes(ctx, tx, lessonID, quizzes); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpsertExercise creates or replaces a lesson's exercise.
func (r *LessonRepository) UpsertExercise(ctx context.Context, e *model.Exercise) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exercises (lesson_id, description, starter_code, solution_code)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (lesson_id) DO UPDATE
		 SET description = EXCLUDED.description,
		     starter_code = EXCLUDED.starter_code,
		     solution_code = EXCLUDED.solution_code
		 RETURNING id`,
		e.LessonID, e.Description, e.StarterCode, e.SolutionCode,
	).Scan(&e.ID)
}

// DeleteExercise removes a lesson's exercise if present.
func (r *LessonRepository) DeleteExercise(ctx context.Context, lessonID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exercises WHERE lesson_id = $1`, lessonID)
	return err
}

func insertQuizzes(ctx context.Context, tx pgx.Tx, lessonID uuid.UUID, quizzes []model.Quiz) error {
	for i := range quizzes {
		q := &quizzes[i]
		q.LessonID = lessonID

		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal quiz options: %w", err)
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO quizzes (lesson_id, question, options, correct_option, order_num)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			lessonID, q.Question, options, q.CorrectOption, q.OrderNum,
		).Scan(&q.ID)
		if err != nil {
			return err
		}
	}
	return nil
}
