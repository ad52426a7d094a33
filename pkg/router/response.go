package router

import (
	"errors"
	"net/http"

	"github.com/questx-lab/arkana/pkg/errorx"
)

type response struct {
	Code    int64          `json:"code"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Data    any            `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) response {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return response{
			Code:    int64(errx.Code),
			Error:   errx.Message,
			Details: errx.Details,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func statusOf(err error) int {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		return http.StatusInternalServerError
	}

	switch errx.Code {
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.Unauthorized, errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.Conflict:
		return http.StatusConflict
	case errorx.Unknown.Code, errorx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
