package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylefeed/stylefeed/internal/middleware"
	"github.com/stylefeed/stylefeed/internal/services"
)

type WardrobeHandler struct {
	wardrobeService *services.WardrobeService
	outfitService   *services.OutfitService
}

func NewWardrobeHandler(wardrobeService *services.WardrobeService, outfitService *services.OutfitService) *WardrobeHandler {
	return &WardrobeHandler{
		wardrobeService: wardrobeService,
		outfitService:   outfitService,
	}
}

func (h *WardrobeHandler) CreateWardrobe(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.CreateWardrobeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wardrobe, err := h.wardrobeService.CreateWardrobe(c.Request.Context(), userID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Wardrobe created",
		"wardrobe": wardrobe,
	})
}

func (h *WardrobeHandler) ListWardrobes(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	targetUserID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	wardrobes, err := h.wardrobeService.ListWardrobes(c.Request.Context(), targetUserID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wardrobes": wardrobes})
}

func (h *WardrobeHandler) DeleteWardrobe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	wardrobeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.wardrobeService.DeleteWardrobe(c.Request.Context(), userID, wardrobeID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wardrobe deleted"})
}

func (h *WardrobeHandler) AddItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	wardrobeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.wardrobeService.AddItem(c.Request.Context(), userID, wardrobeID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added",
		"item":    item,
	})
}

func (h *WardrobeHandler) RemoveItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.wardrobeService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (h *WardrobeHandler) CreateOutfit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.CreateOutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outfit, err := h.outfitService.CreateOutfit(c.Request.Context(), userID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Outfit created",
		"outfit":  outfit,
	})
}

func (h *WardrobeHandler) ListOutfits(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	targetUserID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	outfits, err := h.outfitService.ListOutfits(c.Request.Context(), targetUserID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outfits": outfits})
}

func (h *WardrobeHandler) DeleteOutfit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	outfitID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.outfitService.DeleteOutfit(c.Request.Context(), userID, outfitID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Outfit deleted"})
}
