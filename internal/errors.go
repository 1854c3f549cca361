package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	// Auth Errors
	ErrProviderNotFound     = errors.New("provider not found")
	ErrNewStateFailed       = errors.New("failed to create new jwt state")
	ErrOAuthError           = errors.New("failed to finish OAuth flow, OAuth error received")
	ErrInvalidExchangeToken = errors.New("invalid exchange token")
	ErrInvalidCallbackInfo  = errors.New("invalid callback info")
	ErrAdminNotAllowed      = errors.New("account is not in the admin allowed list")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInternalServerError  = errors.New("internal server error")
	ErrNotFound             = errors.New("not found")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")
	ErrNoAdminInContext        = errors.New("no admin found in request context")

	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrDatabaseError      = errors.New("database error")
	ErrValidationFailed   = errors.New("validation failed")

	// Form Errors
	ErrFormNotFound        = errors.New("form not found")
	ErrFormVersionConflict = errors.New("form was modified by another editor")
	ErrFormHasNoQuestions  = errors.New("form has no questions")

	// Question Errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionRequired     = errors.New("question is required but not answered")
	ErrUnknownQuestionType  = errors.New("unknown question type")
	ErrQuestionIndexInvalid = errors.New("question index out of range")
	ErrOptionIndexInvalid   = errors.New("option index out of range")
	ErrLastOption           = errors.New("choice question must keep at least one option")
	ErrQuestionHasNoOptions = errors.New("question type does not take options")

	// Viewer Errors
	ErrNoNextQuestion     = errors.New("already at the last question")
	ErrNoPreviousQuestion = errors.New("already at the first question")
	ErrNotLastQuestion    = errors.New("submit is only allowed on the last question")
	ErrAlreadySubmitted   = errors.New("response already submitted")
	ErrSubmitInProgress   = errors.New("submission already in progress")

	// Response Errors
	ErrResponseNotFound    = errors.New("response not found")
	ErrNoResponsesToExport = errors.New("no responses to export")
	ErrInvalidExportFormat = errors.New("invalid export format")

	// Content Errors
	ErrNewsNotFound    = errors.New("news article not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrFeatureNotFound = errors.New("feature not found")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrProviderNotFound):
		return problem.NewNotFoundProblem("provider not found")
	case errors.Is(err, ErrNewStateFailed):
		return problem.NewInternalServerProblem("failed to create oauth state")
	case errors.Is(err, ErrOAuthError):
		return problem.NewBadRequestProblem("oauth provider returned an error")
	case errors.Is(err, ErrInvalidExchangeToken):
		return problem.NewValidateProblem("invalid exchange token")
	case errors.Is(err, ErrInvalidCallbackInfo):
		return problem.NewValidateProblem("invalid callback info")
	case errors.Is(err, ErrAdminNotAllowed):
		return problem.NewForbiddenProblem("account is not allowed to manage this site")
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")

	// JWT Authentication Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidJWTToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	case errors.Is(err, ErrNoAdminInContext):
		return problem.NewUnauthorizedProblem("no admin found in request context")

	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem(err.Error())
	case errors.Is(err, ErrDatabaseError):
		return problem.NewBadRequestProblem("database error")

	// Form Errors
	case errors.Is(err, ErrFormNotFound):
		return problem.NewNotFoundProblem("form not found")
	case errors.Is(err, ErrFormVersionConflict):
		return problem.NewValidateProblem("form was modified by another editor, reload it and apply your changes again")
	case errors.Is(err, ErrFormHasNoQuestions):
		return problem.NewValidateProblem("form has no questions")

	// Question Errors
	case errors.Is(err, ErrQuestionNotFound):
		return problem.NewNotFoundProblem("question not found")
	case errors.Is(err, ErrQuestionRequired):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrUnknownQuestionType):
		return problem.NewBadRequestProblem(err.Error())
	case errors.Is(err, ErrQuestionIndexInvalid):
		return problem.NewBadRequestProblem("question index out of range")
	case errors.Is(err, ErrOptionIndexInvalid):
		return problem.NewBadRequestProblem("option index out of range")
	case errors.Is(err, ErrLastOption):
		return problem.NewValidateProblem("choice question must keep at least one option")
	case errors.Is(err, ErrQuestionHasNoOptions):
		return problem.NewBadRequestProblem("question type does not take options")

	// Viewer Errors
	case errors.Is(err, ErrNoNextQuestion):
		return problem.NewValidateProblem("already at the last question")
	case errors.Is(err, ErrNoPreviousQuestion):
		return problem.NewValidateProblem("already at the first question")
	case errors.Is(err, ErrNotLastQuestion):
		return problem.NewValidateProblem("submit is only allowed on the last question")
	case errors.Is(err, ErrAlreadySubmitted):
		return problem.NewValidateProblem("response already submitted")
	case errors.Is(err, ErrSubmitInProgress):
		return problem.NewValidateProblem("submission already in progress")

	// Response Errors
	case errors.Is(err, ErrResponseNotFound):
		return problem.NewNotFoundProblem("response not found")
	case errors.Is(err, ErrNoResponsesToExport):
		return problem.NewNotFoundProblem("No responses to export")
	case errors.Is(err, ErrInvalidExportFormat):
		return problem.NewBadRequestProblem("export format must be csv or xlsx")

	// Content Errors
	case errors.Is(err, ErrNewsNotFound):
		return problem.NewNotFoundProblem("news article not found")
	case errors.Is(err, ErrEventNotFound):
		return problem.NewNotFoundProblem("event not found")
	case errors.Is(err, ErrFeatureNotFound):
		return problem.NewNotFoundProblem("feature not found")

	// Validation Errors
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem(err.Error())
	}
	return problem.Problem{}
}
