package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/services"
	"github.com/studyshare-platform/material-service/internal/utils"
)

// AdminHandler covers the moderation surface: pending queues, approval,
// renames, raw views and deletion, plus the user directory.
type AdminHandler struct {
	BaseHandler
	materialService services.MaterialService
	authService     services.AuthService
}

func NewAdminHandler(
	materialService services.MaterialService,
	authService services.AuthService,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:     NewBaseHandler(logger),
		materialService: materialService,
		authService:     authService,
	}
}

// ListPending returns every material still awaiting review
// @Summary List pending materials
// @Tags admin
// @Produce json
// @Success 200 {array} models.Material
// @Failure 403 {object} ErrorResponse
// @Router /api/materials/admin/pending [get]
func (h *AdminHandler) ListPending(c *gin.Context) {
	materials, err := h.materialService.ListAllPending(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

// ListPendingLatest returns the newest pending materials for the dashboard
// @Summary Latest pending materials
// @Description Returns at most six pending materials, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} models.Material
// @Failure 403 {object} ErrorResponse
// @Router /api/materials/admin/pending/latest [get]
func (h *AdminHandler) ListPendingLatest(c *gin.Context) {
	materials, err := h.materialService.ListPendingLatest(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

// ListAllMaterials returns every material regardless of approval state
// @Summary List all materials
// @Tags admin
// @Produce json
// @Success 200 {array} models.Material
// @Failure 403 {object} ErrorResponse
// @Router /api/materials/admin/materials [get]
func (h *AdminHandler) ListAllMaterials(c *gin.Context) {
	materials, err := h.materialService.ListAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

// Approve marks a material as approved
// @Summary Approve material
// @Tags admin
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/materials/admin/approve/{id} [put]
func (h *AdminHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Material ID is required",
		})
		return
	}

	if err := h.materialService.Approve(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Material approved", "material_id", id)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Material approved"})
}

// Rename updates a material's display file name
// @Summary Rename material
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param request body models.RenameMaterialRequest true "New file name"
// @Success 200 {object} models.Material
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/materials/admin/update-filename/{id} [put]
func (h *AdminHandler) Rename(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Material ID is required",
		})
		return
	}

	var req models.RenameMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	material, err := h.materialService.Rename(c.Request.Context(), id, req.FileName)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// View streams a material's file inline regardless of approval state
// @Summary View material
// @Tags admin
// @Produce octet-stream
// @Param id path string true "Material ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/materials/admin/view/{id} [get]
func (h *AdminHandler) View(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Material ID is required",
		})
		return
	}

	stream, err := h.materialService.View(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer stream.Content.Close()

	writeStream(c, stream, "inline")
}

// Delete removes a material's file and record
// @Summary Delete material
// @Description Deletes the stored file first; the record survives a failed file delete
// @Tags admin
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/materials/admin/materials/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Material ID is required",
		})
		return
	}

	if err := h.materialService.DeleteByAdmin(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Material deleted", "material_id", id)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Material deleted"})
}

// ListUsers returns redacted views of all registered users
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} models.UserView
// @Failure 403 {object} ErrorResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
