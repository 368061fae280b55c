package controllers

import (
	"net/http"

	"mblog/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error onto its HTTP status. Anything that is
// not a domain error is reported as an opaque 500; internals never leak.
func respondError(c *gin.Context, err error) {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), gin.H{"error": domainErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
