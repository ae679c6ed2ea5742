package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

const (
	PromptStatusDraft     = "draft"
	PromptStatusPublished = "published"
	PromptStatusArchived  = "archived"
)

func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

func ValidPromptStatus(s string) bool {
	return s == PromptStatusDraft || s == PromptStatusPublished || s == PromptStatusArchived
}

type Prompt struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	CollectionID   *uuid.UUID `json:"collection_id,omitempty"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	NegativePrompt string     `json:"negative_prompt"`
	Category       string     `json:"category"`
	PromptType     string     `json:"prompt_type"`
	Style          string     `json:"style"`
	Tags           []string   `json:"tags"`
	ExampleImages  []string   `json:"example_images"`
	Visibility     string     `json:"visibility"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
