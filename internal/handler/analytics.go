package handler

import (
	"log"
	"net/http"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/analytics"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the summary aggregates.
type AnalyticsHandler struct {
	Aggregator *analytics.Aggregator
}

func NewAnalyticsHandler(agg *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{Aggregator: agg}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.Aggregator.Summarize(user.ID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		log.Printf("analytics summary: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error fetching analytics summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
