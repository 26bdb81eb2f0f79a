package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/aeroforge/aerobbs/models"
)

// RenderService is the client for the external visualization service that
// turns an uploaded 3D model into an AI-generated studio render. The mesh
// loading, offscreen rendering, and image generation all happen on the other
// side of this HTTP call.
type RenderService struct {
	baseURL string
	client  *http.Client
	log     *zap.SugaredLogger
}

// NewRenderService creates a client for the render service at baseURL.
func NewRenderService(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *RenderService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RenderService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// RenderAttachment streams the stored model file to the render service and
// returns the resulting PNG bytes. Any transport error or non-2xx status is
// reported as ErrUpstream. A mesh advisory from the service (for example
// "mesh is not watertight") arrives in the X-Mesh-Warning header and is
// logged, not failed.
func (s *RenderService) RenderAttachment(ctx context.Context, att models.Attachment, filePath string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, ErrNotFound
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := mw.WriteField("file_type", att.FileType); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/render", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if warning := resp.Header.Get("X-Mesh-Warning"); warning != "" {
		s.log.Warnf("render service mesh advisory for attachment %d: %s", att.ID, warning)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return img, nil
}
