package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/models"
)

var (
	ErrPromptNotFound       = errors.New("prompt not found")
	ErrVisibilityConflict   = errors.New("prompt cannot be public inside a private collection")
	ErrInvalidBulkOperation = errors.New("unsupported bulk operation")
	ErrNoItemsSelected      = errors.New("no items selected")
	ErrInvalidExportFormat  = errors.New("unsupported export format")
)

// Bulk operations
const (
	BulkOpUpdate    = "update"
	BulkOpDelete    = "delete"
	BulkOpArchive   = "archive"
	BulkOpUnarchive = "unarchive"
)

// Export formats
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

const promptColumns = `id, owner_id, collection_id, title, content, negative_prompt, category, prompt_type, style, tags, example_images, visibility, status, created_at, updated_at`

type PromptService struct {
	db *database.DB
}

func NewPromptService(db *database.DB) *PromptService {
	return &PromptService{db: db}
}

// PromptFilter narrows listing of a user's own prompts. Zero values mean
// "no constraint".
type PromptFilter struct {
	Status       string
	Category     string
	CollectionID *uuid.UUID
	Query        string
}

// PromptUpdate is a partial update; nil fields are left unchanged.
// ClearCollection removes the prompt from its collection. Decouple allows a
// prompt to go public while its collection stays private by detaching it.
type PromptUpdate struct {
	Title           *string
	Content         *string
	NegativePrompt  *string
	Category        *string
	PromptType      *string
	Style           *string
	Tags            []string
	ExampleImages   []string
	Visibility      *string
	Status          *string
	CollectionID    *uuid.UUID
	ClearCollection bool
	Decouple        bool
}

type BulkFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BulkResult reports per-item outcomes of a bulk operation. Items succeed or
// fail independently; Total is always len(ids).
type BulkResult struct {
	Success  int           `json:"success"`
	Failed   int           `json:"failed"`
	Total    int           `json:"total"`
	Failures []BulkFailure `json:"failures,omitempty"`
}

func (s *PromptService) Create(ctx context.Context, ownerID uuid.UUID, p *models.Prompt) (*models.Prompt, error) {
	if p.Visibility == "" {
		p.Visibility = models.VisibilityPrivate
	}
	if p.Status == "" {
		p.Status = models.PromptStatusDraft
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.ExampleImages == nil {
		p.ExampleImages = []string{}
	}

	if p.CollectionID != nil && p.Visibility == models.VisibilityPublic {
		if err := s.checkCollectionVisibility(ctx, *p.CollectionID); err != nil {
			return nil, err
		}
	}

	var created models.Prompt
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO prompts (owner_id, collection_id, title, content, negative_prompt, category, prompt_type, style, tags, example_images, visibility, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+promptColumns+`
	`, ownerID, p.CollectionID, p.Title, p.Content, p.NegativePrompt, p.Category,
		p.PromptType, p.Style, p.Tags, p.ExampleImages, p.Visibility, p.Status).Scan(scanPrompt(&created)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}
	return &created, nil
}

func (s *PromptService) GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	var p models.Prompt
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+promptColumns+` FROM prompts WHERE id = $1
	`, id).Scan(scanPrompt(&p)...)
	if err != nil {
		return nil, ErrPromptNotFound
	}
	return &p, nil
}

func (s *PromptService) GetByOwner(ctx context.Context, ownerID uuid.UUID, filter PromptFilter) ([]models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.CollectionID != nil {
		args = append(args, *filter.CollectionID)
		query += ` AND collection_id = $` + strconv.Itoa(len(args))
	}
	if filter.Query != "" {
		args = append(args, filter.Query)
		n := strconv.Itoa(len(args))
		query += ` AND (title ILIKE '%' || $` + n + ` || '%' OR content ILIKE '%' || $` + n + ` || '%')`
	}
	query += ` ORDER BY updated_at DESC`

	return s.queryPrompts(ctx, query, args...)
}

// GetPublic lists the public library: published prompts with public
// visibility, newest first.
func (s *PromptService) GetPublic(ctx context.Context, limit int) ([]models.Prompt, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.queryPrompts(ctx, `
		SELECT `+promptColumns+` FROM prompts
		WHERE visibility = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, models.VisibilityPublic, models.PromptStatusPublished, limit)
}

func (s *PromptService) Update(ctx context.Context, id, ownerID uuid.UUID, upd PromptUpdate) (*models.Prompt, error) {
	existing, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	applyPromptUpdate(existing, upd)

	if existing.CollectionID != nil && existing.Visibility == models.VisibilityPublic {
		if err := s.checkCollectionVisibility(ctx, *existing.CollectionID); err != nil {
			if !upd.Decouple {
				return nil, err
			}
			existing.CollectionID = nil
		}
	}

	var updated models.Prompt
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE prompts
		SET collection_id = $1, title = $2, content = $3, negative_prompt = $4,
		    category = $5, prompt_type = $6, style = $7, tags = $8,
		    example_images = $9, visibility = $10, status = $11, updated_at = NOW()
		WHERE id = $12 AND owner_id = $13
		RETURNING `+promptColumns+`
	`, existing.CollectionID, existing.Title, existing.Content, existing.NegativePrompt,
		existing.Category, existing.PromptType, existing.Style, existing.Tags,
		existing.ExampleImages, existing.Visibility, existing.Status, id, ownerID).Scan(scanPrompt(&updated)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update prompt: %w", err)
	}
	return &updated, nil
}

func (s *PromptService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM prompts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPromptNotFound
	}
	return nil
}

// Bulk applies one operation independently to each selected prompt. A failing
// item never aborts the rest; the result carries per-item outcomes.
func (s *PromptService) Bulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, operation string, upd *PromptUpdate) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoItemsSelected
	}

	result := &BulkResult{Total: len(ids)}

	for _, id := range ids {
		var err error
		switch operation {
		case BulkOpUpdate:
			if upd == nil {
				return nil, ErrInvalidBulkOperation
			}
			_, err = s.Update(ctx, id, ownerID, *upd)
		case BulkOpDelete:
			err = s.Delete(ctx, id, ownerID)
		case BulkOpArchive:
			err = s.setStatus(ctx, id, ownerID, models.PromptStatusArchived)
		case BulkOpUnarchive:
			err = s.setStatus(ctx, id, ownerID, models.PromptStatusDraft)
		default:
			return nil, ErrInvalidBulkOperation
		}

		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Success++
	}

	return result, nil
}

// promptExport is the flat record written by Export; field set matches the
// library's display columns.
type promptExport struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	NegativePrompt string    `json:"negative_prompt"`
	Category       string    `json:"category"`
	PromptType     string    `json:"prompt_type"`
	Style          string    `json:"style"`
	Tags           []string  `json:"tags"`
	Visibility     string    `json:"visibility"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Export serializes the caller's selected prompts to a downloadable JSON or
// CSV document. Ids the caller does not own are silently skipped.
func (s *PromptService) Export(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, format string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, ErrNoItemsSelected
	}
	if format != ExportFormatJSON && format != ExportFormatCSV {
		return nil, ErrInvalidExportFormat
	}

	prompts, err := s.queryPrompts(ctx, `
		SELECT `+promptColumns+` FROM prompts
		WHERE owner_id = $1 AND id = ANY($2)
		ORDER BY created_at ASC
	`, ownerID, ids)
	if err != nil {
		return nil, err
	}

	records := make([]promptExport, len(prompts))
	for i, p := range prompts {
		records[i] = promptExport{
			ID:             p.ID,
			Title:          p.Title,
			Content:        p.Content,
			NegativePrompt: p.NegativePrompt,
			Category:       p.Category,
			PromptType:     p.PromptType,
			Style:          p.Style,
			Tags:           p.Tags,
			Visibility:     p.Visibility,
			Status:         p.Status,
			CreatedAt:      p.CreatedAt,
		}
	}

	if format == ExportFormatJSON {
		return json.MarshalIndent(records, "", "  ")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "content", "negative_prompt", "category", "prompt_type", "style", "tags", "visibility", "status", "created_at"})
	for _, r := range records {
		_ = w.Write([]string{
			r.ID.String(), r.Title, r.Content, r.NegativePrompt, r.Category,
			r.PromptType, r.Style, strings.Join(r.Tags, "|"), r.Visibility,
			r.Status, r.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PromptService) getOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Prompt, error) {
	var p models.Prompt
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+promptColumns+` FROM prompts WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(scanPrompt(&p)...)
	if err != nil {
		return nil, ErrPromptNotFound
	}
	return &p, nil
}

func (s *PromptService) setStatus(ctx context.Context, id, ownerID uuid.UUID, status string) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE prompts SET status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, status, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPromptNotFound
	}
	return nil
}

func (s *PromptService) checkCollectionVisibility(ctx context.Context, collectionID uuid.UUID) error {
	var visibility string
	err := s.db.Pool.QueryRow(ctx, `SELECT visibility FROM collections WHERE id = $1`, collectionID).Scan(&visibility)
	if err != nil {
		return ErrCollectionNotFound
	}
	if visibility == models.VisibilityPrivate {
		return ErrVisibilityConflict
	}
	return nil
}

func (s *PromptService) queryPrompts(ctx context.Context, query string, args ...any) ([]models.Prompt, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(scanPrompt(&p)...); err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func scanPrompt(p *models.Prompt) []any {
	return []any{
		&p.ID, &p.OwnerID, &p.CollectionID, &p.Title, &p.Content, &p.NegativePrompt,
		&p.Category, &p.PromptType, &p.Style, &p.Tags, &p.ExampleImages,
		&p.Visibility, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	}
}

func applyPromptUpdate(p *models.Prompt, upd PromptUpdate) {
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.NegativePrompt != nil {
		p.NegativePrompt = *upd.NegativePrompt
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.PromptType != nil {
		p.PromptType = *upd.PromptType
	}
	if upd.Style != nil {
		p.Style = *upd.Style
	}
	if upd.Tags != nil {
		p.Tags = upd.Tags
	}
	if upd.ExampleImages != nil {
		p.ExampleImages = upd.ExampleImages
	}
	if upd.Visibility != nil {
		p.Visibility = *upd.Visibility
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.ClearCollection {
		p.CollectionID = nil
	} else if upd.CollectionID != nil {
		p.CollectionID = upd.CollectionID
	}
}
