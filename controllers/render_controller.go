package controllers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/config"
	"github.com/aeroforge/aerobbs/models"
	"github.com/aeroforge/aerobbs/services"
	"github.com/aeroforge/aerobbs/utils"
)

// RenderController hands stored 3D model attachments to the external render
// service and relays the generated image.
type RenderController struct {
	db     *gorm.DB
	render *services.RenderService
}

// NewRenderController creates a RenderController.
func NewRenderController(db *gorm.DB, render *services.RenderService) *RenderController {
	return &RenderController{db: db, render: render}
}

// Render generates a studio render for the attachment and returns the PNG.
func (r *RenderController) Render(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("attachment_id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid attachment id")
		return
	}

	var att models.Attachment
	if err := r.db.First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "attachment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load attachment")
		return
	}

	path := filepath.Join(config.Get().UploadDir, filepath.Base(att.FileURL))
	img, err := r.render.RenderAttachment(ctx.Request.Context(), att, path)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40405, "attachment file missing")
		case errors.Is(err, services.ErrUpstream):
			utils.Sugar.Errorf("render failed for attachment %d: %v", att.ID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50061, "render service unavailable")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50062, "render failed")
		}
		return
	}

	ctx.Data(http.StatusOK, "image/png", img)
}
