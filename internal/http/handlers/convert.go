package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/promptdesk-backend/internal/http/response"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

const convertedFileName = "reformatted_document.docx"

type ConvertHandler struct {
	conversionService services.ConversionService
}

func NewConvertHandler(conversionService services.ConversionService) *ConvertHandler {
	return &ConvertHandler{conversionService: conversionService}
}

type convertRequest struct {
	TemplateID       string  `json:"template_id"`
	SourceText       string  `json:"source_text"`
	ConversionPrompt *string `json:"conversion_prompt"`
	// Output is "json" (default) or "docx".
	Output string `json:"output"`
}

// POST /api/convert
//
// Accepts JSON, or multipart with an optional .docx in "source_file".
func (h *ConvertHandler) Convert(c *gin.Context) {
	var (
		req convertRequest
		in  services.ConvertInput
	)
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		req.TemplateID = c.PostForm("template_id")
		req.SourceText = c.PostForm("source_text")
		req.Output = c.PostForm("output")
		if v, ok := c.GetPostForm("conversion_prompt"); ok {
			req.ConversionPrompt = &v
		}
		if fh, err := c.FormFile("source_file"); err == nil {
			if fh.Size > services.MaxSourceFileBytes {
				response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
					fmt.Errorf("file exceeds %d bytes", services.MaxSourceFileBytes))
				return
			}
			f, err := fh.Open()
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, services.MaxSourceFileBytes+1))
			f.Close()
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
				return
			}
			in.SourceFile = data
			in.SourceFileName = fh.Filename
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}
	in.TemplateID = templateID
	in.SourceText = req.SourceText
	in.ConversionPrompt = req.ConversionPrompt
	dbc := dbctx.From(c.Request.Context())

	switch strings.ToLower(strings.TrimSpace(req.Output)) {
	case "", "json":
		out, err := h.conversionService.Convert(dbc, in)
		if err != nil {
			response.RespondServiceError(c, err, "conversion_failed")
			return
		}
		response.RespondOK(c, out)
	case "docx":
		data, err := h.conversionService.ConvertToDocx(dbc, in)
		if err != nil {
			response.RespondServiceError(c, err, "conversion_failed")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", convertedFileName))
		c.Data(http.StatusOK, docx.ContentType, data)
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_output", fmt.Errorf("unknown output %q", req.Output))
	}
}
