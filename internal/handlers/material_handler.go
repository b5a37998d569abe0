package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/services"
	"github.com/studyshare-platform/material-service/internal/utils"
)

type MaterialHandler struct {
	BaseHandler
	materialService services.MaterialService
}

func NewMaterialHandler(materialService services.MaterialService, logger utils.Logger) *MaterialHandler {
	return &MaterialHandler{
		BaseHandler:     NewBaseHandler(logger),
		materialService: materialService,
	}
}

// Upload accepts a multipart file plus its metadata and stores it pending review
// @Summary Upload material
// @Description Uploads a study material; it stays hidden until an admin approves it
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Material file"
// @Param materialType formData string true "Material type"
// @Param semester formData int true "Semester"
// @Param subject formData string true "Subject"
// @Success 201 {object} models.MaterialView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/materials/upload [post]
func (h *MaterialHandler) Upload(c *gin.Context) {
	var req models.UploadMaterialRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	uploadedBy, _ := GetUserEmailFromContext(c)

	material, err := h.materialService.Ingest(
		c.Request.Context(),
		&req,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		uploadedBy,
	)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Material uploaded", "material_id", material.ID)
	c.JSON(http.StatusCreated, models.NewMaterialView(material))
}

// ListApproved returns the public catalogue of approved materials
// @Summary List approved materials
// @Tags materials
// @Produce json
// @Success 200 {array} models.MaterialView
// @Failure 401 {object} ErrorResponse
// @Router /api/materials [get]
func (h *MaterialHandler) ListApproved(c *gin.Context) {
	views, err := h.materialService.ListApproved(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Download streams an approved material's file as an attachment
// @Summary Download material
// @Description Streams the file; pending materials are forbidden
// @Tags materials
// @Produce octet-stream
// @Param id path string true "Material ID"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/materials/download/{id} [get]
func (h *MaterialHandler) Download(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Material ID is required",
		})
		return
	}

	stream, err := h.materialService.Download(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer stream.Content.Close()

	writeStream(c, stream, "attachment")
}

// writeStream copies a material stream onto the response with the display
// file name, not the storage key.
func writeStream(c *gin.Context, stream *services.MaterialStream, disposition string) {
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, stream.Material.FileName))
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", stream.Content, nil)
}
