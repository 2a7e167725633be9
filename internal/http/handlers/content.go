package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptdesk-backend/internal/http/response"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// LoadClient serves POST /api/load_client. Forms send it url-encoded; JSON
// bodies are accepted too.
func (h *ContentHandler) LoadClient(c *gin.Context) {
	var req struct {
		ClientID     string `json:"client_id" form:"client_id"`
		PromptName   string `json:"prompt_name" form:"prompt_name"`
		TemplateName string `json:"template_name" form:"template_name"`
		TemplateID   string `json:"template_id" form:"template_id"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.contentService.Lookup(dbctx.From(c.Request.Context()), services.LookupInput{
		ClientKey:    req.ClientID,
		PromptName:   req.PromptName,
		TemplateName: req.TemplateName,
		TemplateID:   req.TemplateID,
	})
	if err != nil {
		response.RespondServiceError(c, err, "load_client_failed")
		return
	}
	response.RespondOK(c, out)
}
