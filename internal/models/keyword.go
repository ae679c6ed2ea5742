package models

import (
	"time"

	"github.com/google/uuid"
)

// Keyword is a dictionary entry used by the prompt generator. Weight orders
// terms within an assembled prompt; higher weights come first.
type Keyword struct {
	ID          uuid.UUID `json:"id"`
	Term        string    `json:"term"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Weight      int       `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
