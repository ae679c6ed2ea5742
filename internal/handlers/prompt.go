package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/promptatrium/atrium-api/internal/middleware"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/promptatrium/atrium-api/pkg/dto"
)

type PromptHandler struct {
	promptService  PromptServiceInterface
	keywordService KeywordServiceInterface
}

func NewPromptHandler(promptService PromptServiceInterface, keywordService KeywordServiceInterface) *PromptHandler {
	return &PromptHandler{
		promptService:  promptService,
		keywordService: keywordService,
	}
}

func (h *PromptHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreatePromptRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Title == "" {
		c.BadRequest("title is required")
		return
	}
	if req.Content == "" {
		c.BadRequest("content is required")
		return
	}
	if req.Visibility != "" && !models.ValidVisibility(req.Visibility) {
		c.BadRequest("invalid visibility")
		return
	}
	if req.Status != "" && !models.ValidPromptStatus(req.Status) {
		c.BadRequest("invalid status")
		return
	}

	prompt, err := h.promptService.Create(context.Background(), userID, &models.Prompt{
		Title:          req.Title,
		Content:        req.Content,
		NegativePrompt: req.NegativePrompt,
		Category:       req.Category,
		PromptType:     req.PromptType,
		Style:          req.Style,
		Tags:           req.Tags,
		ExampleImages:  req.ExampleImages,
		Visibility:     req.Visibility,
		Status:         req.Status,
		CollectionID:   req.CollectionID,
	})
	if err != nil {
		if errors.Is(err, services.ErrVisibilityConflict) {
			c.BadRequest(err.Error())
			return
		}
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.BadRequest("collection not found")
			return
		}
		c.InternalServerError("failed to create prompt")
		return
	}

	_ = c.JSON(201, toPromptResponse(prompt))
}

func (h *PromptHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	filter := services.PromptFilter{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
	}
	if raw := c.QueryParam("collection_id"); raw != "" {
		collectionID, err := uuid.Parse(raw)
		if err != nil {
			c.BadRequest("invalid collection id")
			return
		}
		filter.CollectionID = &collectionID
	}

	prompts, err := h.promptService.GetByOwner(context.Background(), userID, filter)
	if err != nil {
		c.InternalServerError("failed to get prompts")
		return
	}

	_ = c.JSON(200, toPromptResponses(prompts))
}

func (h *PromptHandler) ListPublic(c *drift.Context) {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	prompts, err := h.promptService.GetPublic(context.Background(), limit)
	if err != nil {
		c.InternalServerError("failed to get prompts")
		return
	}

	_ = c.JSON(200, toPromptResponses(prompts))
}

func (h *PromptHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	promptID, err := uuid.Parse(c.Param("promptId"))
	if err != nil {
		c.BadRequest("invalid prompt id")
		return
	}

	prompt, err := h.promptService.GetByID(context.Background(), promptID)
	if err != nil {
		c.NotFound("prompt not found")
		return
	}

	if prompt.OwnerID != userID && prompt.Visibility != models.VisibilityPublic {
		c.NotFound("prompt not found")
		return
	}

	_ = c.JSON(200, toPromptResponse(prompt))
}

func (h *PromptHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	promptID, err := uuid.Parse(c.Param("promptId"))
	if err != nil {
		c.BadRequest("invalid prompt id")
		return
	}

	var req dto.UpdatePromptRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Visibility != nil && !models.ValidVisibility(*req.Visibility) {
		c.BadRequest("invalid visibility")
		return
	}
	if req.Status != nil && !models.ValidPromptStatus(*req.Status) {
		c.BadRequest("invalid status")
		return
	}

	prompt, err := h.promptService.Update(context.Background(), promptID, userID, toPromptUpdate(&req))
	if err != nil {
		if errors.Is(err, services.ErrPromptNotFound) {
			c.NotFound("prompt not found")
			return
		}
		if errors.Is(err, services.ErrVisibilityConflict) {
			c.BadRequest(err.Error())
			return
		}
		c.InternalServerError("failed to update prompt")
		return
	}

	_ = c.JSON(200, toPromptResponse(prompt))
}

func (h *PromptHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	promptID, err := uuid.Parse(c.Param("promptId"))
	if err != nil {
		c.BadRequest("invalid prompt id")
		return
	}

	if err := h.promptService.Delete(context.Background(), promptID, userID); err != nil {
		if errors.Is(err, services.ErrPromptNotFound) {
			c.NotFound("prompt not found")
			return
		}
		c.InternalServerError("failed to delete prompt")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "prompt deleted"})
}

// Bulk applies one operation across the selected prompts and reports
// per-item success and failure counts.
func (h *PromptHandler) Bulk(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.BulkPromptRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	var upd *services.PromptUpdate
	if req.Update != nil {
		u := toPromptUpdate(req.Update)
		upd = &u
	}

	result, err := h.promptService.Bulk(context.Background(), userID, req.IDs, req.Operation, upd)
	if err != nil {
		if errors.Is(err, services.ErrNoItemsSelected) {
			c.BadRequest("ids are required")
			return
		}
		if errors.Is(err, services.ErrInvalidBulkOperation) {
			c.BadRequest("unsupported bulk operation")
			return
		}
		c.InternalServerError("bulk operation failed")
		return
	}

	_ = c.JSON(200, result)
}

func (h *PromptHandler) Export(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ExportPromptRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	format := req.Format
	if format == "" {
		format = services.ExportFormatJSON
	}

	data, err := h.promptService.Export(context.Background(), userID, req.IDs, format)
	if err != nil {
		if errors.Is(err, services.ErrNoItemsSelected) {
			c.BadRequest("ids are required")
			return
		}
		if errors.Is(err, services.ErrInvalidExportFormat) {
			c.BadRequest("unsupported export format")
			return
		}
		c.InternalServerError("export failed")
		return
	}

	contentType := "application/json"
	if format == services.ExportFormatCSV {
		contentType = "text/csv"
	}
	filename := fmt.Sprintf("prompts-%s.%s", time.Now().Format("2006-01-02"), format)

	c.Response.Header().Set("Content-Type", contentType)
	c.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Response.WriteHeader(200)
	_, _ = c.Response.Write(data)
}

func (h *PromptHandler) Generate(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.GeneratePromptRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	prompt, negative, err := h.keywordService.Generate(ctx, req.Subject, req.Style, req.KeywordIDs, req.NegativeKeywordIDs)
	if err != nil {
		if errors.Is(err, services.ErrEmptySubject) {
			c.BadRequest("subject is required")
			return
		}
		c.InternalServerError("failed to generate prompt")
		return
	}

	resp := dto.GeneratePromptResponse{
		Prompt:         prompt,
		NegativePrompt: negative,
	}

	if req.SaveAsDraft {
		title := req.Title
		if title == "" {
			title = req.Subject
		}
		saved, err := h.promptService.Create(ctx, userID, &models.Prompt{
			Title:          title,
			Content:        prompt,
			NegativePrompt: negative,
			Style:          req.Style,
			Status:         models.PromptStatusDraft,
		})
		if err != nil {
			c.InternalServerError("failed to save generated prompt")
			return
		}
		savedResp := toPromptResponse(saved)
		resp.Saved = &savedResp
	}

	_ = c.JSON(200, resp)
}

func toPromptUpdate(req *dto.UpdatePromptRequest) services.PromptUpdate {
	return services.PromptUpdate{
		Title:           req.Title,
		Content:         req.Content,
		NegativePrompt:  req.NegativePrompt,
		Category:        req.Category,
		PromptType:      req.PromptType,
		Style:           req.Style,
		Tags:            req.Tags,
		ExampleImages:   req.ExampleImages,
		Visibility:      req.Visibility,
		Status:          req.Status,
		CollectionID:    req.CollectionID,
		ClearCollection: req.ClearCollection,
		Decouple:        req.Decouple,
	}
}

func toPromptResponse(p *models.Prompt) dto.PromptResponse {
	return dto.PromptResponse{
		ID:             p.ID,
		OwnerID:        p.OwnerID,
		CollectionID:   p.CollectionID,
		Title:          p.Title,
		Content:        p.Content,
		NegativePrompt: p.NegativePrompt,
		Category:       p.Category,
		PromptType:     p.PromptType,
		Style:          p.Style,
		Tags:           p.Tags,
		ExampleImages:  p.ExampleImages,
		Visibility:     p.Visibility,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPromptResponses(prompts []models.Prompt) []dto.PromptResponse {
	responses := make([]dto.PromptResponse, len(prompts))
	for i := range prompts {
		responses[i] = toPromptResponse(&prompts[i])
	}
	return responses
}
