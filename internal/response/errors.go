package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrInterviewerOnly     ErrCode = "INTERVIEWER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Interview-specific ────────────────────────────────────────────
	ErrInterviewNotActive     ErrCode = "INTERVIEW_NOT_ACTIVE"
	ErrInterviewStarted       ErrCode = "INTERVIEW_ALREADY_STARTED"
	ErrInterviewDone          ErrCode = "INTERVIEW_COMPLETED"
	ErrEvaluationInFlight     ErrCode = "EVALUATION_IN_FLIGHT"
	ErrSessionMissing         ErrCode = "NO_INTERVIEW_SESSION"
	ErrAINotConfigured        ErrCode = "AI_NOT_CONFIGURED"
	ErrResumeInsufficient     ErrCode = "RESUME_INSUFFICIENT"
	ErrAIUnavailable          ErrCode = "AI_UNAVAILABLE"

	// ─── Resume upload ─────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

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
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrInterviewerOnly:
		return "This resource is restricted to interviewers."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Interview-specific ────────────────────────────────────────────
	case ErrInterviewNotActive:
		return "The interview session is not active."
	case ErrInterviewStarted:
		return "The interview has already started."
	case ErrInterviewDone:
		return "The interview has already been completed."
	case ErrEvaluationInFlight:
		return "An answer is currently being evaluated. Please wait."
	case ErrSessionMissing:
		return "No interview session was found for this candidate."
	case ErrAINotConfigured:
		return "The AI service is not configured. Please contact the administrator."
	case ErrResumeInsufficient:
		return "The resume does not contain enough information to generate personalized questions."
	case ErrAIUnavailable:
		return "The AI service is temporarily unavailable. Please try again."

	// ─── Resume upload ─────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "The file type is not supported. Upload a PDF or DOCX."
	case ErrFileTooLarge:
		return "The file size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
