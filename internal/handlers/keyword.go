package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/promptatrium/atrium-api/pkg/dto"
)

type KeywordHandler struct {
	keywordService KeywordServiceInterface
}

func NewKeywordHandler(keywordService KeywordServiceInterface) *KeywordHandler {
	return &KeywordHandler{keywordService: keywordService}
}

// Search is available to any authenticated user; the dictionary itself is
// admin-managed.
func (h *KeywordHandler) Search(c *drift.Context) {
	query := c.QueryParam("q")

	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	keywords, err := h.keywordService.Search(context.Background(), query, limit)
	if err != nil {
		c.InternalServerError("failed to search keywords")
		return
	}

	_ = c.JSON(200, toKeywordResponses(keywords))
}

func (h *KeywordHandler) Create(c *drift.Context) {
	var req dto.CreateKeywordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Term == "" {
		c.BadRequest("term is required")
		return
	}

	keyword, err := h.keywordService.Create(context.Background(), req.Term, req.Category, req.Description, req.Weight)
	if err != nil {
		c.InternalServerError("failed to create keyword")
		return
	}

	_ = c.JSON(201, toKeywordResponse(keyword))
}

func (h *KeywordHandler) Update(c *drift.Context) {
	keywordID, err := uuid.Parse(c.Param("keywordId"))
	if err != nil {
		c.BadRequest("invalid keyword id")
		return
	}

	var req dto.UpdateKeywordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	keyword, err := h.keywordService.Update(context.Background(), keywordID, req.Term, req.Category, req.Description, req.Weight)
	if err != nil {
		if errors.Is(err, services.ErrKeywordNotFound) {
			c.NotFound("keyword not found")
			return
		}
		c.InternalServerError("failed to update keyword")
		return
	}

	_ = c.JSON(200, toKeywordResponse(keyword))
}

func (h *KeywordHandler) Delete(c *drift.Context) {
	keywordID, err := uuid.Parse(c.Param("keywordId"))
	if err != nil {
		c.BadRequest("invalid keyword id")
		return
	}

	if err := h.keywordService.Delete(context.Background(), keywordID); err != nil {
		if errors.Is(err, services.ErrKeywordNotFound) {
			c.NotFound("keyword not found")
			return
		}
		c.InternalServerError("failed to delete keyword")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "keyword deleted"})
}

func toKeywordResponse(k *models.Keyword) dto.KeywordResponse {
	return dto.KeywordResponse{
		ID:          k.ID,
		Term:        k.Term,
		Category:    k.Category,
		Description: k.Description,
		Weight:      k.Weight,
		CreatedAt:   k.CreatedAt,
	}
}

func toKeywordResponses(keywords []models.Keyword) []dto.KeywordResponse {
	responses := make([]dto.KeywordResponse, len(keywords))
	for i := range keywords {
		responses[i] = toKeywordResponse(&keywords[i])
	}
	return responses
}
