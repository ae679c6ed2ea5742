package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateKeywordRequest struct {
	Term        string `json:"term"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Weight      int    `json:"weight,omitempty"`
}

type UpdateKeywordRequest struct {
	Term        *string `json:"term,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Weight      *int    `json:"weight,omitempty"`
}

type KeywordResponse struct {
	ID          uuid.UUID `json:"id"`
	Term        string    `json:"term"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Weight      int       `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
}
