package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
	"github.com/atelierbois/portfolio/internal/imaging"
)

const uploadRoot = "/images/projects"

type UploadHandler struct {
	media ports.MediaService
	log   zerolog.Logger
}

func NewUploadHandler(media ports.MediaService, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{media: media, log: log}
}

// Upload normalizes a single image into the folder of projectName.
//
// @Summary      Upload an image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file         formData  file    true   "Image"
// @Param        projectName  formData  string  true   "Project the image belongs to"
// @Param        thumbnail    formData  bool    false  "Also store a cropped thumbnail"
// @Success      201  {object}  uploadResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	f, err := parseForm(c)
	if err != nil {
		return err
	}
	folder := domain.FolderName(f.value("projectName"))
	if folder == "" {
		return domain.NewValidationError("projectName", "project name is required")
	}
	up, err := f.file("file")
	if err != nil {
		return err
	}
	if up == nil {
		return domain.NewValidationError("file", "file is required")
	}

	ctx := c.Request().Context()
	dest := uploadRoot + "/" + folder + "/" + uuid.NewString()

	path, err := h.media.Store(ctx, *up, dest, imaging.ProjectImage)
	if err != nil {
		return err
	}
	resp := uploadResponse{Path: path}

	if f.flag("thumbnail") {
		// The main file is already stored; a thumbnail failure only drops the thumbnail.
		thumb, err := h.media.Thumbnail(ctx, up.Data, dest+"_thumb", imaging.Thumbnail)
		if err != nil {
			h.log.Warn().Err(err).Str("path", path).Msg("thumbnail generation failed")
		} else {
			resp.Thumbnail = thumb
		}
	}
	return c.JSON(http.StatusCreated, resp)
}
