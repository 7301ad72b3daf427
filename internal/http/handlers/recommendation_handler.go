// Recommendation HTTP handlers.
//
// This file exposes REST endpoints for the recommendation pipeline:
//   - GET  /recommendations               (ranked unseen ideas)
//   - GET  /recommendations/explain/{id}  (prediction + driving factors)
//   - GET  /recommendations/similar/{id}  (content similarity)
//   - GET  /recommendations/stats         (pipeline diagnostics)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartswipe/go-swipe-backend/internal/recs"
	"github.com/smartswipe/go-swipe-backend/internal/services"
	"github.com/smartswipe/go-swipe-backend/internal/utils"
)

// RecommendationsResponse wraps a ranked recommendation list.
type RecommendationsResponse struct {
	Recommendations []recs.ScoredIdea `json:"recommendations"`
	Count           int               `json:"count"`
}

// SimilarIdeasResponse wraps a content-similarity result list.
type SimilarIdeasResponse struct {
	Similar []recs.ScoredIdea `json:"similar"`
	Count   int               `json:"count"`
}

func recErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrIdeaNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrNotOnboarded):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrModelNotTrained):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// limitParam bounds the limit query parameter.
func limitParam(c *gin.Context, def, max int) int {
	return utils.ClampInt(utils.AtoiDefault(c.Query("limit"), def), 1, max)
}

// Recommendations godoc
// @ID          recommendations
// @Summary     Ranked recommendations
// @Description Returns up to limit unseen ideas inside the selected domains, ranked by predicted like probability. Before the first training run every idea carries the neutral fallback score.
// @Tags        Recommendations
// @Produce     json
// @Security    BearerAuth
//
// @Param       limit  query  int  false  "Result size"  minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  handlers.RecommendationsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Onboarding not completed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recommendations [get]
func (h *Handlers) Recommendations(c *gin.Context) {
	limit := limitParam(c, 10, 50)
	ranked, err := h.recSvc.Recommend(c.Request.Context(), userID(c), limit)
	if err != nil {
		recErr(c, err)
		return
	}
	ok(c, http.StatusOK, RecommendationsResponse{Recommendations: ranked, Count: len(ranked)})
}

// ExplainRecommendation godoc
// @ID          explainRecommendation
// @Summary     Explain a prediction
// @Description Returns the like probability for one idea together with the concrete attributes that drove it.
// @Tags        Recommendations
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Idea ID (UUID)"  format(uuid)
//
// @Success     200  {object}  recs.Explanation
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Idea not found"
// @Router      /recommendations/explain/{id} [get]
func (h *Handlers) ExplainRecommendation(c *gin.Context) {
	ideaID := c.Param("id")
	if _, err := uuid.Parse(ideaID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "idea id must be a UUID")
		return
	}
	expl, err := h.recSvc.Explain(c.Request.Context(), userID(c), ideaID)
	if err != nil {
		recErr(c, err)
		return
	}
	ok(c, http.StatusOK, expl)
}

// SimilarIdeas godoc
// @ID          similarIdeas
// @Summary     Similar ideas
// @Description Returns the ideas most similar to the given one: TF-IDF cosine similarity when a trained matrix covers the idea, tag overlap otherwise.
// @Tags        Recommendations
// @Produce     json
// @Security    BearerAuth
//
// @Param       id     path   string  true   "Idea ID (UUID)"  format(uuid)
// @Param       limit  query  int     false  "Result size"     minimum(1) maximum(20) default(5)
//
// @Success     200  {object}  handlers.SimilarIdeasResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Idea not found"
// @Router      /recommendations/similar/{id} [get]
func (h *Handlers) SimilarIdeas(c *gin.Context) {
	ideaID := c.Param("id")
	if _, err := uuid.Parse(ideaID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "idea id must be a UUID")
		return
	}
	limit := limitParam(c, 5, 20)
	similar, err := h.recSvc.Similar(c.Request.Context(), ideaID, limit)
	if err != nil {
		recErr(c, err)
		return
	}
	ok(c, http.StatusOK, SimilarIdeasResponse{Similar: similar, Count: len(similar)})
}

// RecommendationStats godoc
// @ID          recommendationStats
// @Summary     Pipeline diagnostics
// @Description Returns corpus sizes and the in-memory model snapshot.
// @Tags        Recommendations
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  services.RecStats
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /recommendations/stats [get]
func (h *Handlers) RecommendationStats(c *gin.Context) {
	stats, err := h.recSvc.Info(c.Request.Context())
	if err != nil {
		recErr(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
