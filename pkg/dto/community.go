package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateCommunityRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CommunityResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Level       *int       `json:"level,omitempty"`
	Path        *string    `json:"path,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CommunityMemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

type MigrationPreviewResponse struct {
	NeedsMigration int `json:"needs_migration"`
}
