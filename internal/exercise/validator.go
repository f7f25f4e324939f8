// Package exercise resolves and runs per-lesson code validators. Lessons with
// bespoke correctness rules register a Func under their course/lesson slugs;
// every other lesson falls back to a normalized comparison against the
// canonical solution text.
package exercise

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// GenericFailureMessage is shown when a custom validator panics. Validator
// panics are diagnostics, never learner-facing detail.
const GenericFailureMessage = "ERREUR"

// Result is the outcome of a validation run.
type Result struct {
	Success bool
	Message string
}

// Func checks submitted code. Implementations may panic; callers go through
// Registry.Check which recovers.
type Func func(code string) Result

// Registry maps "course/lesson" to a custom validator.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]Func
	log zerolog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		fns: make(map[string]Func),
		log: log.With().Str("component", "exercise_registry").Logger(),
	}
}

// Register binds a validator to a course+lesson pair, replacing any existing one.
func (r *Registry) Register(courseSlug, lessonSlug string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[key(courseSlug, lessonSlug)] = fn
}

// Resolve returns the validator registered for a course+lesson pair.
// A missing validator is not an error: the caller falls back to the
// solution comparison.
func (r *Registry) Resolve(courseSlug, lessonSlug string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[key(courseSlug, lessonSlug)]
	return fn, ok
}

// Check validates submitted code for a lesson: the registered validator when
// one exists, otherwise Normalize-equality against the solution.
func (r *Registry) Check(courseSlug, lessonSlug, code, solution string) Result {
	if fn, ok := r.Resolve(courseSlug, lessonSlug); ok {
		return r.safeCall(fn, courseSlug, lessonSlug, code)
	}

	if Normalize(code) == Normalize(solution) {
		return Result{Success: true}
	}
	return Result{Success: false, Message: "Le code soumis ne correspond pas à la solution attendue."}
}

// safeCall runs a custom validator, converting any panic into a generic
// failure so a broken validator never takes down the lesson view.
func (r *Registry) safeCall(fn Func, courseSlug, lessonSlug, code string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Str("course", courseSlug).
				Str("lesson", lessonSlug).
				Str("panic", fmt.Sprint(rec)).
				Msg("Exercise validator panicked")
			res = Result{Success: false, Message: GenericFailureMessage}
		}
	}()
	return fn(code)
}

var wsRun = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to single spaces, trims, and lowercases,
// making the fallback comparison tolerant of formatting and casing.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(wsRun.ReplaceAllString(code, " ")))
}

func key(courseSlug, lessonSlug string) string {
	return courseSlug + "/" + lessonSlug
}
