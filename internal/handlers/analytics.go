package handlers

import (
	"context"
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
)

type AnalyticsHandler struct {
	analyticsService AnalyticsServiceInterface
	migrationService MigrationServiceInterface
}

func NewAnalyticsHandler(analyticsService AnalyticsServiceInterface, migrationService MigrationServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		migrationService: migrationService,
	}
}

func (h *AnalyticsHandler) Overview(c *drift.Context) {
	stats, err := h.analyticsService.Overview(context.Background())
	if err != nil {
		c.InternalServerError("failed to load analytics")
		return
	}

	_ = c.JSON(200, stats)
}

func (h *AnalyticsHandler) PromptActivity(c *drift.Context) {
	days := 30
	if d := c.QueryParam("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 && parsed <= 365 {
			days = parsed
		}
	}

	activity, err := h.analyticsService.PromptActivity(context.Background(), days)
	if err != nil {
		c.InternalServerError("failed to load activity")
		return
	}

	_ = c.JSON(200, activity)
}

// MigrationPreview reports how many communities still carry legacy flat
// records, without changing anything.
func (h *AnalyticsHandler) MigrationPreview(c *drift.Context) {
	needed, err := h.migrationService.Preview(context.Background())
	if err != nil {
		c.InternalServerError("failed to preview migration")
		return
	}

	_ = c.JSON(200, map[string]int{"communities_needing_migration": needed})
}

func (h *AnalyticsHandler) MigrationRun(c *drift.Context) {
	report, err := h.migrationService.Run(context.Background())
	if err != nil {
		c.InternalServerError("failed to run migration")
		return
	}

	_ = c.JSON(200, report)
}
