package httpadapter

import (
	"net/http"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrContentNotFound),
		domain.IsKind(err, domain.ErrReportNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrContentNotPending):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
