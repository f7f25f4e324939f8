package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Course authoring ──────────────────────────────────────────────
	ErrCourseNotDraft       ErrCode = "COURSE_NOT_DRAFT"
	ErrCourseNotPublished   ErrCode = "COURSE_NOT_PUBLISHED"
	ErrInvalidCorrectOption ErrCode = "INVALID_CORRECT_OPTION"

	// ─── Lesson progression ────────────────────────────────────────────
	ErrNoQuizzes            ErrCode = "NO_QUIZZES"
	ErrNoExercise           ErrCode = "NO_EXERCISE"
	ErrQuizIndexOutOfRange  ErrCode = "QUIZ_INDEX_OUT_OF_RANGE"
	ErrQuizAlreadyAnswered  ErrCode = "QUIZ_ALREADY_ANSWERED"
	ErrLessonSessionMissing ErrCode = "LESSON_SESSION_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email ou mot de passe incorrect."
	case ErrTokenRequired:
		return "Jeton d'authentification requis."
	case ErrTokenInvalid:
		return "Jeton d'authentification invalide."
	case ErrTokenExpired:
		return "Le jeton d'authentification a expiré."
	case ErrAdminAccessOnly:
		return "Cette ressource est réservée aux administrateurs."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Échec de la validation. Veuillez vérifier votre saisie."
	case ErrInvalidID:
		return "Format d'identifiant invalide."
	case ErrInvalidPayload:
		return "Corps de requête invalide."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Ressource introuvable."
	case ErrConflict:
		return "La ressource existe déjà."
	case ErrActionForbidden:
		return "Cette action n'est pas autorisée."

	// ─── Course authoring ──────────────────────────────────────────────
	case ErrCourseNotDraft:
		return "Ce cours n'est plus en brouillon."
	case ErrCourseNotPublished:
		return "Ce cours n'est pas encore publié."
	case ErrInvalidCorrectOption:
		return "L'indice de la bonne réponse dépasse le nombre d'options."

	// ─── Lesson progression ────────────────────────────────────────────
	case ErrNoQuizzes:
		return "Cette leçon ne comporte pas de quiz."
	case ErrNoExercise:
		return "Cette leçon ne comporte pas d'exercice."
	case ErrQuizIndexOutOfRange:
		return "Indice de question hors limites."
	case ErrQuizAlreadyAnswered:
		return "Vous avez déjà répondu à cette question."
	case ErrLessonSessionMissing:
		return "Aucune session de leçon active. Rechargez la leçon."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Trop de requêtes. Veuillez réessayer plus tard."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Une erreur interne est survenue."
	default:
		return "Une erreur inattendue est survenue."
	}
}
