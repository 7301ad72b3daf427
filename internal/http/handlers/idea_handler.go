// Idea HTTP handlers.
//
// This file exposes REST endpoints for the idea pool:
//   - POST /ideas/generate-pool   (queue LLM generation for the user's domains)
//   - GET  /ideas/game-session    (unseen ideas, marked viewed)
//   - GET  /ideas                 (list, paginated, ETag support)
//   - GET  /ideas/stats           (pool summary)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/llm"
	"github.com/smartswipe/go-swipe-backend/internal/repo"
	"github.com/smartswipe/go-swipe-backend/internal/services"
	"github.com/smartswipe/go-swipe-backend/internal/utils"
)

// ListIdeasResponse wraps a page of ideas and pagination information.
type ListIdeasResponse struct {
	Ideas      []domain.Idea `json:"ideas"`
	Pagination Pagination    `json:"pagination"`
}

// GameSessionResponse wraps one swipe session.
type GameSessionResponse struct {
	Ideas []domain.Idea `json:"ideas"`
	Count int           `json:"count"`
}

func ideaErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrIdeaNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrNotOnboarded):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, llm.ErrGeneratorDisabled):
		fail(c, http.StatusServiceUnavailable, ErrCodeGenerateFailed, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// GeneratePool godoc
// @ID          generatePool
// @Summary     Refill the idea pool
// @Description Queues LLM idea generation for every selected domain. Generation runs in the background. Supports Idempotency-Key.
// @Tags        Ideas
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false  "Dedupe key for retries"
//
// @Success     202  {object}  services.GenerationResult
// @Failure     400  {object}  handlers.ErrorResponse  "Onboarding not completed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     503  {object}  handlers.ErrorResponse  "Generator disabled"
// @Router      /ideas/generate-pool [post]
func (h *Handlers) GeneratePool(c *gin.Context) {
	// Replay path: a repeated key must not queue the generation twice.
	if h.replayedIdempotency(c) {
		ok(c, http.StatusAccepted, services.GenerationResult{})
		return
	}
	res, err := h.ideaSvc.GeneratePool(c.Request.Context(), userID(c))
	if err != nil {
		ideaErr(c, err)
		return
	}
	h.storeIdempotency(c, "", http.StatusAccepted)
	ok(c, http.StatusAccepted, res)
}

// GameSession godoc
// @ID          gameSession
// @Summary     Start a swipe session
// @Description Returns up to limit unseen ideas inside the selected domains and marks them as viewed.
// @Tags        Ideas
// @Produce     json
// @Security    BearerAuth
//
// @Param       limit  query  int  false  "Session size"  minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  handlers.GameSessionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Onboarding not completed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /ideas/game-session [get]
func (h *Handlers) GameSession(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	ideas, err := h.ideaSvc.GameSession(c.Request.Context(), userID(c), limit)
	if err != nil {
		ideaErr(c, err)
		return
	}
	ok(c, http.StatusOK, GameSessionResponse{Ideas: ideas, Count: len(ideas)})
}

// ListIdeas godoc
// @ID          listIdeas
// @Summary     List ideas (paginated)
// @Description Returns a page of ideas inside the user's selected domains. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Ideas
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       domain         query   string  false "Narrow to one domain"  example(technology)
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListIdeasResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ideas [get]
func (h *Handlers) ListIdeas(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)
	domainFilter := c.Query("domain")

	// ETag pre-check (best effort).
	if h.db != nil {
		if u, err := repo.GetUser(ctx, h.db, uid); err == nil {
			scope := u.SelectedDomains
			if domainFilter != "" {
				scope = []string{domainFilter}
			}
			count, maxTS, err := repo.IdeasStats(ctx, h.db, scope)
			if err == nil {
				var ts int64
				if maxTS != nil {
					ts = maxTS.Unix()
				}
				etag := fmt.Sprintf(`W/"ideas:%s:%s:%d:%d"`, uid, domainFilter, count, ts)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	items, total, err := h.ideaSvc.ListPage(ctx, uid, domainFilter, page, pageSize)
	if err != nil {
		ideaErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListIdeasResponse{
		Ideas:      items,
		Pagination: paginate(page, pageSize, total),
	})
}

// IdeaStats godoc
// @ID          ideaStats
// @Summary     Idea pool summary
// @Tags        Ideas
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  services.IdeaStats
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /ideas/stats [get]
func (h *Handlers) IdeaStats(c *gin.Context) {
	stats, err := h.ideaSvc.Stats(c.Request.Context(), userID(c))
	if err != nil {
		ideaErr(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
