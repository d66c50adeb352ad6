package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/logger"
	"github.com/huangang/projectpulse/pkg/response"
)

// respondError maps service errors onto HTTP categories. Unknown errors
// are logged and reported without internal detail.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *services.NotFoundError
		validation *services.ValidationError
		cfgErr     *services.ConfigurationError
		depErr     *services.DependencyUnavailableError
		genErr     *services.GenerationFailedError
	)

	switch {
	case errors.As(err, &notFound):
		response.Error(c, response.NewNotFound(notFound.Error()))
	case errors.As(err, &validation):
		response.Error(c, response.NewBadRequest(validation.Error()))
	case errors.As(err, &cfgErr):
		response.Error(c, response.NewConfigurationError(cfgErr.Error()))
	case errors.As(err, &depErr):
		response.Error(c, response.NewServiceUnavailable(depErr.Error()))
	case errors.As(err, &genErr):
		response.Error(c, response.NewBadGateway(genErr.Error()))
	default:
		logger.Error().Err(err).Str("request_id", c.GetString(logger.RequestIDKey)).Str("path", c.FullPath()).Msg("request failed")
		response.ServerError(c, "internal server error")
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name+" id")
		return 0, false
	}
	return uint(id), true
}
