package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylefeed/stylefeed/internal/middleware"
	"github.com/stylefeed/stylefeed/internal/services"
)

type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	senderID := middleware.GetUserID(c)
	recipientID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	edge, err := h.friendshipService.SendRequest(c.Request.Context(), senderID, recipientID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Friend request sent",
		"friendship": edge,
	})
}

func (h *FriendshipHandler) AcceptRequest(c *gin.Context) {
	h.respond(c, services.DecisionAccept)
}

func (h *FriendshipHandler) RejectRequest(c *gin.Context) {
	h.respond(c, services.DecisionReject)
}

func (h *FriendshipHandler) respond(c *gin.Context, decision services.Decision) {
	actingUserID := middleware.GetUserID(c)
	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	edge, err := h.friendshipService.RespondToRequest(c.Request.Context(), requestID, actingUserID, decision)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Friend request " + string(edge.Status),
		"friendship": edge,
	})
}

func (h *FriendshipHandler) ListPending(c *gin.Context) {
	userID := middleware.GetUserID(c)

	edges, err := h.friendshipService.ListPending(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": edges})
}

func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friendIDs, err := h.friendshipService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friendIDs})
}

func (h *FriendshipHandler) Unfriend(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.friendshipService.Unfriend(c.Request.Context(), userID, friendID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friendship removed"})
}

func (h *FriendshipHandler) Block(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.friendshipService.Block(c.Request.Context(), userID, targetID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

func (h *FriendshipHandler) Unblock(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.friendshipService.Unblock(c.Request.Context(), userID, targetID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}
