package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePromptRequest struct {
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	NegativePrompt string     `json:"negative_prompt,omitempty"`
	Category       string     `json:"category,omitempty"`
	PromptType     string     `json:"prompt_type,omitempty"`
	Style          string     `json:"style,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	ExampleImages  []string   `json:"example_images,omitempty"`
	Visibility     string     `json:"visibility,omitempty"`
	Status         string     `json:"status,omitempty"`
	CollectionID   *uuid.UUID `json:"collection_id,omitempty"`
}

type UpdatePromptRequest struct {
	Title           *string    `json:"title,omitempty"`
	Content         *string    `json:"content,omitempty"`
	NegativePrompt  *string    `json:"negative_prompt,omitempty"`
	Category        *string    `json:"category,omitempty"`
	PromptType      *string    `json:"prompt_type,omitempty"`
	Style           *string    `json:"style,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	ExampleImages   []string   `json:"example_images,omitempty"`
	Visibility      *string    `json:"visibility,omitempty"`
	Status          *string    `json:"status,omitempty"`
	CollectionID    *uuid.UUID `json:"collection_id,omitempty"`
	ClearCollection bool       `json:"clear_collection,omitempty"`
	Decouple        bool       `json:"decouple,omitempty"`
}

type BulkPromptRequest struct {
	IDs       []uuid.UUID          `json:"ids"`
	Operation string               `json:"operation"`
	Update    *UpdatePromptRequest `json:"update,omitempty"`
}

type ExportPromptRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Format string      `json:"format"`
}

type GeneratePromptRequest struct {
	Subject            string      `json:"subject"`
	Style              string      `json:"style,omitempty"`
	KeywordIDs         []uuid.UUID `json:"keyword_ids,omitempty"`
	NegativeKeywordIDs []uuid.UUID `json:"negative_keyword_ids,omitempty"`
	SaveAsDraft        bool        `json:"save_as_draft,omitempty"`
	Title              string      `json:"title,omitempty"`
}

type GeneratePromptResponse struct {
	Prompt         string          `json:"prompt"`
	NegativePrompt string          `json:"negative_prompt"`
	Saved          *PromptResponse `json:"saved,omitempty"`
}

type PromptResponse struct {
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
