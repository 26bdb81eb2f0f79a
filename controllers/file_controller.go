package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/config"
	"github.com/aeroforge/aerobbs/models"
	"github.com/aeroforge/aerobbs/utils"
)

// FileController stores uploaded attachment blobs on disk and serves them
// back by name.
type FileController struct {
	db *gorm.DB
}

// NewFileController creates a FileController.
func NewFileController(db *gorm.DB) *FileController {
	return &FileController{db: db}
}

// Upload attaches a file to a thread: the blob goes to the uploads dir under
// a uuid-prefixed name, the attachment row records its public URL and type.
func (f *FileController) Upload(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	threadID, ok := parseID(ctx.PostForm("thread_id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "missing or invalid thread_id")
		return
	}
	var thread models.Thread
	if err := f.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load thread")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) << 20
	if header.Size > 0 && header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40052, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
		return
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create upload directory")
		return
	}

	base := filepath.Base(header.Filename)
	if base == "." || base == "" {
		base = "file"
	}
	name := fmt.Sprintf("%s_%s", uuid.NewString()[:8], base)
	dstPath := filepath.Join(cfg.UploadDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to save file")
		return
	}
	defer out.Close()

	written, err := io.Copy(out, &io.LimitedReader{R: file, N: maxSize + 1})
	if err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to write file")
		return
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40052, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
		return
	}

	fileType := strings.TrimSpace(ctx.PostForm("file_type"))
	if fileType == "" {
		fileType = inferFileType(base)
	}
	attachment := models.Attachment{
		ThreadID:    thread.ID,
		FileURL:     "/api/file/" + name,
		FileType:    fileType,
		Description: strings.TrimSpace(ctx.PostForm("description")),
	}
	if err := f.db.Create(&attachment).Error; err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to record attachment")
		return
	}

	utils.Sugar.Infof("user %d attached %s (%s) to thread %d", userID, name, fileType, thread.ID)

	// composed thread views embed the attachment summary
	utils.InvalidateByPrefix(threadListCachePrefix)
	utils.InvalidateByPrefix(threadDetailCacheKey(thread.ID))

	utils.Success(ctx, gin.H{"attachment": attachment})
}

// GetFile serves a stored attachment blob by name.
func (f *FileController) GetFile(ctx *gin.Context) {
	name := ctx.Param("name")
	if name == "" || name != filepath.Base(name) {
		utils.Error(ctx, http.StatusNotFound, 40404, "file not found")
		return
	}
	path := filepath.Join(config.Get().UploadDir, name)
	if _, err := os.Stat(path); err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "file not found")
		return
	}
	ctx.File(path)
}

func inferFileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".glb", ".gltf", ".obj", ".stl":
		return models.FileTypeModel
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return models.FileTypeImage
	case ".mp4", ".webm", ".mov":
		return models.FileTypeVideo
	case ".pdf":
		return models.FileTypePDF
	default:
		return "file"
	}
}
