package http

import (
	"errors"
	"net/http"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/validation"

	"github.com/gin-gonic/gin"
)

// respondError maps err to its HTTP status. Internal errors are logged and
// answered with fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("%s: %v", fallback, err)
	}

	body := gin.H{"error": apperror.Message(err, fallback)}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	c.JSON(status, body)
}
