package gemini

import (
	"errors"
	"fmt"
)

// Pipeline failure conditions. None of these are retried internally; the
// caller surfaces them so the user can retry the same input.
var (
	ErrImagePreparationFailed = errors.New("failed to prepare image for upload")
	ErrInvalidEndpoint        = errors.New("invalid API endpoint URL")
	ErrRequestEncodingFailed  = errors.New("failed to encode request data")
	ErrEmptyResponse          = errors.New("no response from model")
	ErrJSONParsingFailed      = errors.New("failed to parse model response")
	ErrNoIngredientsDetected  = errors.New("no ingredients detected in photo")
	ErrNoIngredientsProvided  = errors.New("no ingredients provided for recipe generation")
	ErrNoRecipesGenerated     = errors.New("no recipes generated")
)

// APIError carries the server-supplied message of a non-2xx reply whose
// error body was parseable.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s", e.Message)
}

// HTTPError is a non-2xx reply with no parseable error body.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}
