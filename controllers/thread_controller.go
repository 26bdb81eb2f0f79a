package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/services"
	"github.com/aeroforge/aerobbs/utils"
)

const (
	threadListCachePrefix   = "cache:threads:list:"
	threadDetailCachePrefix = "cache:threads:detail:"
)

// threadDetailCacheKey ends with a terminator so invalidating one thread's
// key never SCAN-matches ids that merely share leading digits.
func threadDetailCacheKey(id uint) string {
	return fmt.Sprintf("%s%d:", threadDetailCachePrefix, id)
}

// ThreadController manages thread CRUD and the composed thread views.
type ThreadController struct {
	threads *services.ThreadService
	views   *services.ViewService
}

// NewThreadController creates a ThreadController.
func NewThreadController(db *gorm.DB) *ThreadController {
	return &ThreadController{
		threads: services.NewThreadService(db),
		views:   services.NewViewService(db),
	}
}

type threadRequest struct {
	Title    string   `json:"title" binding:"required,min=1"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (r threadRequest) toInput() (services.ThreadInput, error) {
	title := utils.Sanitize(strings.TrimSpace(r.Title))
	if title == "" {
		return services.ThreadInput{}, fmt.Errorf("empty title")
	}
	return services.ThreadInput{
		Title:    title,
		Content:  utils.Sanitize(r.Content),
		Summary:  utils.Sanitize(r.Summary),
		Category: strings.TrimSpace(r.Category),
		Tags:     r.Tags,
	}, nil
}

// Create stores a new thread authored by the caller.
func (t *ThreadController) Create(ctx *gin.Context) {
	var req threadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	thread, err := t.threads.Create(userID, in)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create thread")
		return
	}

	utils.InvalidateByPrefix(threadListCachePrefix)
	utils.Success(ctx, gin.H{"thread": thread})
}

// List returns a page of composed thread views, newest first.
func (t *ThreadController) List(ctx *gin.Context) {
	skip, limit := parsePageArgs(ctx)

	cacheKey := fmt.Sprintf("%sskip=%d:limit=%d", threadListCachePrefix, skip, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	views, err := t.views.ListThreads(skip, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list threads")
		return
	}

	payload := gin.H{"items": views}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Get returns the composed view for a single thread.
func (t *ThreadController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid thread id")
		return
	}

	cacheKey := threadDetailCacheKey(id)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	view, err := t.views.GetThread(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load thread")
		return
	}

	payload := gin.H{"thread": view}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Update rewrites a thread. Only the author or staff; ownership failures
// read as not-found.
func (t *ThreadController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid thread id")
		return
	}
	var req threadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	thread, err := t.threads.Update(userID, getRole(ctx), id, in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update thread")
		return
	}

	utils.InvalidateByPrefix(threadListCachePrefix)
	utils.InvalidateByPrefix(threadDetailCacheKey(id))
	utils.Success(ctx, gin.H{"thread": thread})
}

// Delete removes a thread under the same ownership rule as Update.
func (t *ThreadController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid thread id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if err := t.threads.Delete(userID, getRole(ctx), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete thread")
		return
	}

	utils.InvalidateByPrefix(threadListCachePrefix)
	utils.InvalidateByPrefix(threadDetailCacheKey(id))
	utils.Success(ctx, gin.H{"message": "thread deleted"})
}
