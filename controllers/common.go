package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aeroforge/aerobbs/middleware"
	"github.com/aeroforge/aerobbs/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePageArgs reads offset pagination from the query string. Callers may
// send skip directly or a zero-based page, in which case skip = page*limit.
func parsePageArgs(ctx *gin.Context) (skip, limit int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil && v > 0 && v <= maxPageLimit {
		limit = v
	}
	if v, err := strconv.Atoi(ctx.Query("skip")); err == nil && v >= 0 {
		return v, limit
	}
	if v, err := strconv.Atoi(ctx.Query("page")); err == nil && v >= 0 {
		return v * limit, limit
	}
	return 0, limit
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func getRole(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextRoleKey)
	if !exists {
		return models.RoleUser
	}
	role, _ := value.(string)
	if role == "" {
		return models.RoleUser
	}
	return role
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
