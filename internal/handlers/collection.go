package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/promptatrium/atrium-api/internal/middleware"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/promptatrium/atrium-api/pkg/dto"
)

type CollectionHandler struct {
	collectionService CollectionServiceInterface
}

func NewCollectionHandler(collectionService CollectionServiceInterface) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (h *CollectionHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if len(req.Name) < 3 {
		c.BadRequest("name must be at least 3 characters")
		return
	}
	if req.Visibility != "" && !models.ValidVisibility(req.Visibility) {
		c.BadRequest("invalid visibility")
		return
	}

	collection, err := h.collectionService.Create(context.Background(), userID, req.Name, req.Description, req.Visibility)
	if err != nil {
		c.InternalServerError("failed to create collection")
		return
	}

	_ = c.JSON(201, toCollectionResponse(collection))
}

func (h *CollectionHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collections, err := h.collectionService.GetByOwner(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get collections")
		return
	}

	responses := make([]dto.CollectionResponse, len(collections))
	for i := range collections {
		responses[i] = toCollectionResponse(&collections[i])
	}
	_ = c.JSON(200, responses)
}

func (h *CollectionHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	collection, err := h.collectionService.GetByID(context.Background(), collectionID)
	if err != nil {
		c.NotFound("collection not found")
		return
	}

	if collection.OwnerID != userID && collection.Visibility != models.VisibilityPublic {
		c.NotFound("collection not found")
		return
	}

	_ = c.JSON(200, toCollectionResponse(collection))
}

func (h *CollectionHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	collection, err := h.collectionService.Update(context.Background(), collectionID, userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		if errors.Is(err, services.ErrCollectionNameShort) {
			c.BadRequest("name must be at least 3 characters")
			return
		}
		c.InternalServerError("failed to update collection")
		return
	}

	_ = c.JSON(200, toCollectionResponse(collection))
}

// SetVisibility changes the collection's visibility, optionally cascading the
// change to every member prompt.
func (h *CollectionHandler) SetVisibility(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	var req dto.SetCollectionVisibilityRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if !models.ValidVisibility(req.Visibility) {
		c.BadRequest("invalid visibility")
		return
	}

	collection, err := h.collectionService.SetVisibility(context.Background(), collectionID, userID, req.Visibility, req.Cascade)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		c.InternalServerError("failed to change visibility")
		return
	}

	_ = c.JSON(200, toCollectionResponse(collection))
}

// Delete removes a collection. The mode query parameter chooses between
// detaching member prompts (collection-only, the default) and deleting them
// (collection-and-prompts).
func (h *CollectionHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	mode := c.QueryParam("mode")
	if mode == "" {
		mode = services.DeleteModeCollectionOnly
	}

	if err := h.collectionService.Delete(context.Background(), collectionID, userID, mode); err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.NotFound("collection not found")
			return
		}
		if errors.Is(err, services.ErrInvalidDeleteMode) {
			c.BadRequest("unsupported delete mode")
			return
		}
		c.InternalServerError("failed to delete collection")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "collection deleted"})
}

func toCollectionResponse(col *models.Collection) dto.CollectionResponse {
	return dto.CollectionResponse{
		ID:          col.ID,
		OwnerID:     col.OwnerID,
		Name:        col.Name,
		Description: col.Description,
		Visibility:  col.Visibility,
		PromptCount: col.PromptCount,
		CreatedAt:   col.CreatedAt,
		UpdatedAt:   col.UpdatedAt,
	}
}
