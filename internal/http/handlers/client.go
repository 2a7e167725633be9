package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptdesk-backend/internal/http/response"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

type ClientHandler struct {
	clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// GET /api/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(dbctx.From(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err, "load_clients_failed")
		return
	}
	response.RespondOK(c, gin.H{"clients": clients})
}

// POST /api/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req struct {
		ClientID      string `json:"client_id" form:"client_id"`
		Name          string `json:"name" form:"name"`
		PromptName    string `json:"prompt_name" form:"prompt_name"`
		PromptContent string `json:"prompt_content" form:"prompt_content"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	client, prompt, err := h.clientService.CreateClient(dbctx.From(c.Request.Context()), services.CreateClientInput{
		ClientKey:     req.ClientID,
		Name:          req.Name,
		PromptName:    req.PromptName,
		PromptContent: req.PromptContent,
	})
	if err != nil {
		response.RespondServiceError(c, err, "create_client_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client, "prompt": prompt})
}
