package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

// RespondDomainError translates the error taxonomy into HTTP statuses:
// validation 400, not_found 404, conflict 409, unavailable 503,
// anything else 500.
func RespondDomainError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	if code == "" {
		code = domain.CodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}
	RespondError(c, status, string(code), err)
}
