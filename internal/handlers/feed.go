package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylefeed/stylefeed/internal/middleware"
	"github.com/stylefeed/stylefeed/internal/services"
)

type FeedHandler struct {
	feedService    *services.FeedService
	likeService    *services.LikeService
	commentService *services.CommentService
}

func NewFeedHandler(feedService *services.FeedService, likeService *services.LikeService, commentService *services.CommentService) *FeedHandler {
	return &FeedHandler{
		feedService:    feedService,
		likeService:    likeService,
		commentService: commentService,
	}
}

func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.feedService.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	offset, limit := parsePage(c)

	feed, err := h.feedService.GetFeed(c.Request.Context(), viewerID, offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *FeedHandler) GetPost(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.feedService.GetPost(c.Request.Context(), postID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *FeedHandler) GetUserPosts(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	targetUserID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePage(c)

	posts, err := h.feedService.GetUserPosts(c.Request.Context(), targetUserID, viewerID, offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":  posts,
		"offset": offset,
		"limit":  limit,
	})
}

func (h *FeedHandler) DeletePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.feedService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *FeedHandler) LikePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.likeService.LikePost(c.Request.Context(), userID, postID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post liked"})
}

func (h *FeedHandler) UnlikePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.likeService.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked"})
}

func (h *FeedHandler) GetPostLikes(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePage(c)

	likes, err := h.likeService.GetPostLikes(c.Request.Context(), userID, postID, offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (h *FeedHandler) CreateComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created",
		"comment": comment,
	})
}

func (h *FeedHandler) GetPostComments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePage(c)

	comments, err := h.commentService.GetPostComments(c.Request.Context(), userID, postID, offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *FeedHandler) DeleteComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
