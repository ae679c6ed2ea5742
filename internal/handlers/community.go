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

type CommunityHandler struct {
	communityService CommunityServiceInterface
}

func NewCommunityHandler(communityService CommunityServiceInterface) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (h *CommunityHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateCommunityRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	community, err := h.communityService.Create(context.Background(), req.Name, req.Description, userID)
	if err != nil {
		c.InternalServerError("failed to create community")
		return
	}

	_ = c.JSON(201, toCommunityResponse(community))
}

func (h *CommunityHandler) CreateSub(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	parentID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	var req dto.CreateCommunityRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	ctx := context.Background()

	canModify, err := h.communityService.CanModify(ctx, parentID, userID)
	if err != nil || !canModify {
		c.Forbidden("cannot create sub-communities here")
		return
	}

	community, err := h.communityService.CreateSub(ctx, parentID, req.Name, req.Description, userID)
	if err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			c.NotFound("community not found")
			return
		}
		if errors.Is(err, services.ErrCommunityInactive) || errors.Is(err, services.ErrParentNotMigrated) {
			c.BadRequest(err.Error())
			return
		}
		c.InternalServerError("failed to create sub-community")
		return
	}

	_ = c.JSON(201, toCommunityResponse(community))
}

func (h *CommunityHandler) List(c *drift.Context) {
	communities, err := h.communityService.ListRoots(context.Background())
	if err != nil {
		c.InternalServerError("failed to get communities")
		return
	}

	_ = c.JSON(200, toCommunityResponses(communities))
}

func (h *CommunityHandler) ListChildren(c *drift.Context) {
	parentID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	communities, err := h.communityService.ListChildren(context.Background(), parentID)
	if err != nil {
		c.InternalServerError("failed to get sub-communities")
		return
	}

	_ = c.JSON(200, toCommunityResponses(communities))
}

func (h *CommunityHandler) Get(c *drift.Context) {
	communityID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	community, err := h.communityService.GetByID(context.Background(), communityID)
	if err != nil {
		c.NotFound("community not found")
		return
	}

	_ = c.JSON(200, toCommunityResponse(community))
}

func (h *CommunityHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	communityID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	ctx := context.Background()

	canModify, err := h.communityService.CanModify(ctx, communityID, userID)
	if err != nil || !canModify {
		c.Forbidden("cannot modify this community")
		return
	}

	var req dto.UpdateCommunityRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	community, err := h.communityService.Update(ctx, communityID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			c.NotFound("community not found")
			return
		}
		c.InternalServerError("failed to update community")
		return
	}

	_ = c.JSON(200, toCommunityResponse(community))
}

func (h *CommunityHandler) Deactivate(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	communityID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	ctx := context.Background()

	canModify, err := h.communityService.CanModify(ctx, communityID, userID)
	if err != nil || !canModify {
		c.Forbidden("cannot deactivate this community")
		return
	}

	if err := h.communityService.Deactivate(ctx, communityID); err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			c.NotFound("community not found")
			return
		}
		c.InternalServerError("failed to deactivate community")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "community deactivated"})
}

func (h *CommunityHandler) Join(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	communityID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	if err := h.communityService.Join(context.Background(), communityID, userID); err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			c.NotFound("community not found")
			return
		}
		if errors.Is(err, services.ErrAlreadyMember) {
			c.BadRequest("already a member")
			return
		}
		if errors.Is(err, services.ErrCommunityInactive) {
			c.BadRequest("community is not active")
			return
		}
		c.InternalServerError("failed to join community")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "joined community"})
}

func (h *CommunityHandler) Leave(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	communityID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	if err := h.communityService.Leave(context.Background(), communityID, userID); err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			c.NotFound("not a member")
			return
		}
		if errors.Is(err, services.ErrCannotRemoveOwner) {
			c.BadRequest("owner cannot leave the community")
			return
		}
		c.InternalServerError("failed to leave community")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "left community"})
}

func (h *CommunityHandler) GetMembers(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	communityID, err := uuid.Parse(c.Param("communityId"))
	if err != nil {
		c.BadRequest("invalid community id")
		return
	}

	ctx := context.Background()

	isMember, err := h.communityService.IsMember(ctx, communityID, userID)
	if err != nil || !isMember {
		c.NotFound("community not found")
		return
	}

	members, err := h.communityService.GetMembers(ctx, communityID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	responses := make([]dto.CommunityMemberResponse, len(members))
	for i, m := range members {
		responses[i] = dto.CommunityMemberResponse{
			UserID:    m.UserID,
			Role:      m.Role,
			Name:      m.Name,
			Email:     m.Email,
			AvatarURL: m.AvatarURL,
			JoinedAt:  m.CreatedAt,
		}
	}
	_ = c.JSON(200, responses)
}

func toCommunityResponse(community *models.Community) dto.CommunityResponse {
	return dto.CommunityResponse{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		ParentID:    community.ParentID,
		Level:       community.Level,
		Path:        community.Path,
		IsActive:    community.IsActive,
		CreatedAt:   community.CreatedAt,
	}
}

func toCommunityResponses(communities []models.Community) []dto.CommunityResponse {
	responses := make([]dto.CommunityResponse, len(communities))
	for i := range communities {
		responses[i] = toCommunityResponse(&communities[i])
	}
	return responses
}
