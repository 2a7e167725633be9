package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/promptdesk-backend/internal/http/response"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

type TemplateHandler struct {
	templateService services.TemplateService
}

func NewTemplateHandler(templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// GET /api/templates?client_id=
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(dbctx.From(c.Request.Context()), c.Query("client_id"))
	if err != nil {
		response.RespondServiceError(c, err, "load_templates_failed")
		return
	}
	response.RespondOK(c, gin.H{"templates": templates})
}

// POST /api/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req struct {
		ClientID           string `json:"client_id" form:"client_id"`
		TemplateName       string `json:"template_name" form:"template_name"`
		TemplatePromptID   string `json:"template_prompt_id" form:"template_prompt_id"`
		ConversionPromptID string `json:"conversion_prompt_id" form:"conversion_prompt_id"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	templatePromptID, err := uuid.Parse(req.TemplatePromptID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_prompt_id", err)
		return
	}
	in := services.CreateTemplateInput{
		ClientKey:        req.ClientID,
		Name:             req.TemplateName,
		TemplatePromptID: templatePromptID,
	}
	if req.ConversionPromptID != "" {
		id, err := uuid.Parse(req.ConversionPromptID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_conversion_prompt_id", err)
			return
		}
		in.ConversionPromptID = &id
	}
	summary, err := h.templateService.CreateTemplate(dbctx.From(c.Request.Context()), in)
	if err != nil {
		response.RespondServiceError(c, err, "create_template_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": summary})
}

// POST /api/templates/:id/file (multipart field "template_file")
func (h *TemplateHandler) UploadFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("template_file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	if fh.Size > services.MaxTemplateFileBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d bytes", services.MaxTemplateFileBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, services.MaxTemplateFileBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	if err := h.templateService.UploadFile(dbctx.From(c.Request.Context()), id, fh.Filename, data); err != nil {
		response.RespondServiceError(c, err, "upload_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/templates/:id/file
func (h *TemplateHandler) DownloadFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	name, data, err := h.templateService.DownloadFile(dbctx.From(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err, "download_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, docx.ContentType, data)
}

// POST /api/templates/:id/file/generate
func (h *TemplateHandler) GenerateFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	summary, err := h.templateService.CreateTemplateFile(dbctx.From(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err, "generate_file_failed")
		return
	}
	response.RespondOK(c, gin.H{"template": summary})
}

// POST /api/templates/:id/prompt_from_file
func (h *TemplateHandler) CreatePromptFromFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	prompt, err := h.templateService.CreatePromptFromFile(dbctx.From(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err, "create_prompt_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prompt": prompt})
}

// DELETE /api/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.templateService.DeleteTemplate(dbctx.From(c.Request.Context()), id); err != nil {
		response.RespondServiceError(c, err, "delete_template_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
