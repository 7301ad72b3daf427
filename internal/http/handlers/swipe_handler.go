// Swipe HTTP handlers.
//
// This file exposes REST endpoints for swipe decisions:
//   - POST /swipes        (record like/dislike, upsert semantics, idempotent)
//   - GET  /swipes        (list, paginated, ETag support)
//   - GET  /swipes/stats  (history summary)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/repo"
	"github.com/smartswipe/go-swipe-backend/internal/services"
)

// RecordSwipeRequest is the JSON payload for recording a swipe.
type RecordSwipeRequest struct {
	IdeaID string `json:"idea_id" binding:"required" format:"uuid" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Liked  *bool  `json:"liked"   binding:"required" example:"true"`
}

// ListSwipesResponse wraps a page of swipes and pagination information.
type ListSwipesResponse struct {
	Swipes     []domain.Swipe `json:"swipes"`
	Pagination Pagination     `json:"pagination"`
}

func swipeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIdeaNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// RecordSwipe godoc
// @ID          recordSwipe
// @Summary     Record a swipe
// @Description Stores a like/dislike for an idea. A repeat swipe on the same idea overwrites the stored outcome.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Swipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.RecordSwipeRequest  true  "Swipe payload"
//
// @Success     200  {object}  domain.Swipe
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Idea not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /swipes [post]
func (h *Handlers) RecordSwipe(c *gin.Context) {
	var req RecordSwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Liked == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "idea_id and liked required")
		return
	}
	if _, err := uuid.Parse(req.IdeaID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "idea_id must be a UUID")
		return
	}

	// Replay detection is informational here: the upsert makes a repeated
	// request converge on the same row anyway.
	h.replayedIdempotency(c)

	sw, err := h.swipeSvc.Record(c.Request.Context(), userID(c), req.IdeaID, *req.Liked)
	if err != nil {
		swipeErr(c, err)
		return
	}
	h.storeIdempotency(c, sw.ID, http.StatusOK)
	ok(c, http.StatusOK, sw)
}

// ListSwipes godoc
// @ID          listSwipes
// @Summary     List swipes (paginated)
// @Description Returns a page of the user's swipes, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Swipes
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       liked          query   bool    false "Only liked swipes"  default(false)
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSwipesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /swipes [get]
func (h *Handlers) ListSwipes(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)
	likedOnly := c.Query("liked") == "true"

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.SwipesStats(ctx, h.db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"swipes:%s:%t:%d:%d"`, uid, likedOnly, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.swipeSvc.ListPage(ctx, uid, likedOnly, page, pageSize)
	if err != nil {
		swipeErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListSwipesResponse{
		Swipes:     items,
		Pagination: paginate(page, pageSize, total),
	})
}

// SwipeStats godoc
// @ID          swipeStats
// @Summary     Swipe history summary
// @Description Returns totals, like ratio, and a per-domain like breakdown.
// @Tags        Swipes
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  services.SwipeStats
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /swipes/stats [get]
func (h *Handlers) SwipeStats(c *gin.Context) {
	stats, err := h.swipeSvc.Stats(c.Request.Context(), userID(c))
	if err != nil {
		swipeErr(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
