package response

import (
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"
)

// Response is the standard API envelope.
type Response struct {
	Status     string            `json:"status"`      // "success" or "error"
	StatusCode int               `json:"status_code"` // HTTP status code
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"` // field-level validation detail
}

// ListResponse wraps paginated collections.
type ListResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}

// Success returns a success envelope wrapping data.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns an error envelope wrapping the message.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// List returns a paginated success envelope.
func List(statusCode int, data interface{}, total int64, page, limit int) ListResponse {
	return ListResponse{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
	}
}

// FromError maps a service error to its HTTP status and error envelope,
// including field detail for validation failures.
func FromError(err error) (int, Response) {
	code := apperror.HTTPStatus(err)
	return code, Response{
		Status:     "error",
		StatusCode: code,
		Error:      err.Error(),
		Fields:     apperror.FieldsOf(err),
	}
}
