package handlers

import (
	"errors"
	"net/http"

	"staffing_backend/internal/middleware"
	"staffing_backend/internal/services"
	"staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// serviceAPIError maps a service error onto the API error envelope.
func serviceAPIError(err error, fallback string) *utils.APIError {
	var pf *services.PartialFailureError
	switch {
	case errors.As(err, &pf):
		return utils.NewAPIError(http.StatusMultiStatus, utils.ErrCodePartialFailure, "Some items were not applied.", err.Error()).WithData(pf)
	case errors.Is(err, services.ErrInvalidInput):
		return utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed.", err.Error())
	case errors.Is(err, services.ErrForbidden):
		return utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You may only act on your own records.", err.Error())
	case errors.Is(err, services.ErrNotFound):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error())
	case errors.Is(err, services.ErrDuplicateDateGroup):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeDuplicateDateGroup, "Date group already exists.", err.Error())
	case errors.Is(err, services.ErrInvariantViolation):
		return utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeInvariantViolation, "Stored data is inconsistent.", err.Error())
	default:
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error")
	}
}

// respondServiceError logs err and writes the mapped error response.
func respondServiceError(c *gin.Context, err error, logMessage, fallback string) {
	utils.LogError(err, logMessage)
	utils.RespondWithError(c, serviceAPIError(err, fallback))
}

// respondPartial writes a 207 carrying both the applied data and the failures.
func respondPartial(c *gin.Context, data interface{}, err error, logMessage string) {
	utils.LogError(err, logMessage)
	c.JSON(http.StatusMultiStatus, gin.H{"data": data, "error": serviceAPIError(err, "")})
}

func respondBindError(c *gin.Context, err error, logMessage string) {
	utils.LogError(err, logMessage)
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
}

// actorID returns the authenticated user id set by middleware.AuthMiddleware.
func actorID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// ownerScope returns the actor id for employee tokens, whose user id is the
// employee id, and "" for managers and admins.
func ownerScope(c *gin.Context) string {
	if c.GetString("userRole") == middleware.RoleEmployee {
		return actorID(c)
	}
	return ""
}

func pageParams(c *gin.Context, defaultSize int) (int, int, bool) {
	page, err := utils.StrToInt(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.RespondValidationFailed(c, "page: "+err.Error())
		return 0, 0, false
	}
	pageSize, err := utils.StrToInt(c.DefaultQuery("page_size", "0"))
	if err != nil {
		utils.RespondValidationFailed(c, "page_size: "+err.Error())
		return 0, 0, false
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	return page, pageSize, true
}
