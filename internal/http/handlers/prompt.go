package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/http/response"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

type PromptHandler struct {
	promptService services.PromptService
}

func NewPromptHandler(promptService services.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// GET /api/prompts?client_id=&prompt_type=
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	prompts, err := h.promptService.ListPrompts(
		dbctx.From(c.Request.Context()),
		c.Query("client_id"),
		types.PromptType(c.Query("prompt_type")),
	)
	if err != nil {
		response.RespondServiceError(c, err, "load_prompts_failed")
		return
	}
	response.RespondOK(c, gin.H{"prompts": prompts})
}

// POST /api/prompts
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	var req struct {
		ClientID   string `json:"client_id" form:"client_id"`
		PromptName string `json:"prompt_name" form:"prompt_name"`
		PromptType string `json:"prompt_type" form:"prompt_type"`
		Content    string `json:"content" form:"content"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	prompt, err := h.promptService.CreatePrompt(dbctx.From(c.Request.Context()), services.PromptInput{
		ClientKey: req.ClientID,
		Name:      req.PromptName,
		Type:      types.PromptType(req.PromptType),
		Content:   req.Content,
	})
	if err != nil {
		response.RespondServiceError(c, err, "create_prompt_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prompt": prompt})
}

// PUT /api/prompts
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	var req struct {
		ClientID           string `json:"client_id" form:"client_id"`
		OriginalPromptName string `json:"original_prompt_name" form:"original_prompt_name"`
		OriginalPromptType string `json:"original_prompt_type" form:"original_prompt_type"`
		PromptName         string `json:"prompt_name" form:"prompt_name"`
		PromptType         string `json:"prompt_type" form:"prompt_type"`
		Content            string `json:"content" form:"content"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	prompt, err := h.promptService.UpdatePrompt(dbctx.From(c.Request.Context()), services.UpdatePromptInput{
		ClientKey:    req.ClientID,
		OriginalName: req.OriginalPromptName,
		OriginalType: types.PromptType(req.OriginalPromptType),
		Name:         req.PromptName,
		Type:         types.PromptType(req.PromptType),
		Content:      req.Content,
	})
	if err != nil {
		response.RespondServiceError(c, err, "update_prompt_failed")
		return
	}
	response.RespondOK(c, gin.H{"prompt": prompt})
}
