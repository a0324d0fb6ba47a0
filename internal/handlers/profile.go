package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylefeed/stylefeed/internal/middleware"
	"github.com/stylefeed/stylefeed/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile serves another user's profile through the visibility gate.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	ownerUserID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), ownerUserID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	profile, err := h.profileService.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}
