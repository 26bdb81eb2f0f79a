package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/services"
	"github.com/aeroforge/aerobbs/utils"
)

// CommentController manages comment CRUD and the composed comment listing.
type CommentController struct {
	comments *services.CommentService
	views    *services.ViewService
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{
		comments: services.NewCommentService(db),
		views:    services.NewViewService(db),
	}
}

// Create stores a new comment, optionally replying to a parent comment on
// the same thread.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		ThreadID        uint   `json:"thread_id" binding:"required"`
		Content         string `json:"content" binding:"required"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "content cannot be empty")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment, err := c.comments.Create(userID, req.ThreadID, content, req.ParentCommentID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// ListForThread returns composed comment views for one thread, most recent
// first. Clients rebuild reply nesting from parent_comment_id.
func (c *CommentController) ListForThread(ctx *gin.Context) {
	threadID, ok := parseID(ctx.Param("thread_id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid thread id")
		return
	}
	skip, limit := parsePageArgs(ctx)

	views, err := c.views.ListComments(threadID, skip, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list comments")
		return
	}
	utils.Success(ctx, gin.H{"items": views})
}

// Update rewrites a comment. Only the author or staff; ownership failures
// read as not-found.
func (c *CommentController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid comment id")
		return
	}
	var req struct {
		Content         string `json:"content" binding:"required"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "content cannot be empty")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment, err := c.comments.Update(userID, getRole(ctx), id, content, req.ParentCommentID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// Delete removes a comment under the same ownership rule as Update.
func (c *CommentController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid comment id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if err := c.comments.Delete(userID, getRole(ctx), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete comment")
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
