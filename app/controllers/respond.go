package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/pkg/ctx"
	"github.com/shashiranjanraj/sahyog/pkg/logger"
)

// respondErr maps service and store errors onto the HTTP error taxonomy.
// Unknown errors are logged with the request id and surfaced as a generic 500.
func respondErr(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.NotFound()
	case errors.Is(err, repositories.ErrDuplicate):
		c.Conflict("Email already registered")
	case errors.Is(err, repositories.ErrAlreadyDecided):
		c.Conflict("Donation has already been approved or rejected")
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid credentials")
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// pageParams reads page/limit query params with sane bounds.
func pageParams(c *ctx.Context) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
