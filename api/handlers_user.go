package api

import (
	"edunova/config"
	"edunova/db"
	"edunova/models"
	"edunova/settings"
	"edunova/utils"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProgressResponse wraps a progress collection.
type ProgressResponse struct {
	Progress []models.ProgressEntry `json:"progress"`
}

// currentUserID aborts with 500 when the middleware did not run.
func currentUserID(c *gin.Context) (int, bool) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		utils.GinInternalServerError(c, "User ID not found in context")
	}
	return userID, ok
}

// --- Settings ---

// GetSettingsHandler returns the caller's settings, or the defaults.
// @Summary      Get Settings
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Settings
// @Failure      401  {object}  utils.APIError
// @Router       /settings [get]
func GetSettingsHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, database.GetSettings(userID))
}

// UpdateSettingsHandler merges the body over the caller's settings.
// @Summary      Update Settings
// @Description  Fields left out of the body keep their current value, at any nesting depth.
// @Description  Enumerated fields are validated: theme (light, dark, auto), language (fr, en, ar),
// @Description  privacy.profileVisibility (public, private, friends), preferences.downloadQuality (low, medium, high).
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        settings body models.Settings true "Full or partial settings"
// @Success      200  {object}  models.Settings
// @Failure      400  {object}  utils.APIError "Malformed body or invalid value"
// @Failure      401  {object}  utils.APIError
// @Router       /settings [put]
func UpdateSettingsHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.GinBadRequest(c, "Failed to read request body")
		return
	}
	merged, err := settings.Merge(database.GetSettings(userID), raw)
	if err != nil {
		utils.GinFromError(c, err)
		return
	}
	if err := database.UpdateSettings(userID, merged); err != nil {
		utils.GinFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, merged)
}

// --- Progress ---

// GetProgressHandler lists the caller's progress entries.
// @Summary      Get Progress
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProgressResponse
// @Failure      401  {object}  utils.APIError
// @Router       /progress [get]
func GetProgressHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ProgressResponse{Progress: database.GetProgress(userID)})
}

// UpdateProgressHandler records progress on one piece of content.
// @Summary      Update Progress
// @Description  Replaces the entry with the same contentType and contentId, or adds a new one.
// @Description  `progress` is clamped to 0..100 and `lastAccessed` is set by the server.
// @Tags         Progress
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        update body models.ProgressUpdate true "Progress update"
// @Success      200  {object}  models.ProgressEntry
// @Failure      400  {object}  utils.APIError "Unknown content type or missing id"
// @Failure      401  {object}  utils.APIError
// @Router       /progress [post]
func UpdateProgressHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := database.UpsertProgress(userID, req)
	if err != nil {
		utils.GinFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetStatsHandler summarises the caller's progress.
// @Summary      Get Stats
// @Description  courses, exercises and videos count completed entries of each type. successRate is the
// @Description  rounded percentage of completed entries. activeThisWeek counts entries accessed in the last 7 days.
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Stats
// @Failure      401  {object}  utils.APIError
// @Router       /stats [get]
func GetStatsHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, database.Stats(userID))
}
