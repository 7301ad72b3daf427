// Handler wiring for the public API.
//
// This file declares the service contracts consumed by the HTTP layer and
// the Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into HTTP
// responses (including conditional responses).
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/http/middleware"
	"github.com/smartswipe/go-swipe-backend/internal/recs"
	"github.com/smartswipe/go-swipe-backend/internal/repo"
	"github.com/smartswipe/go-swipe-backend/internal/services"
	"github.com/smartswipe/go-swipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// UserService defines account and domain-selection operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates an account and returns it with a fresh access token.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)
	// Login verifies credentials and returns the user with an access token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Profile returns the account for userID.
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// AvailableDomains lists the canonical interest domains.
	AvailableDomains() []services.DomainOption
	// SetDomains replaces the user's interest selection (1..8 domains).
	SetDomains(ctx context.Context, userID string, domains []string) (*domain.User, error)
	// AddDomain appends one domain to the selection.
	AddDomain(ctx context.Context, userID, name string) (*domain.User, error)
	// RemoveDomain drops one domain from the selection.
	RemoveDomain(ctx context.Context, userID, name string) (*domain.User, error)
}

// IdeaService defines idea-pool operations consumed by HTTP handlers.
type IdeaService interface {
	// GeneratePool queues background idea generation for the user's domains.
	GeneratePool(ctx context.Context, userID string) (*services.GenerationResult, error)
	// GameSession returns unseen ideas and marks them viewed.
	GameSession(ctx context.Context, userID string, limit int) ([]domain.Idea, error)
	// ListPage returns a page of ideas inside the user's domains.
	ListPage(ctx context.Context, userID, domainFilter string, page, pageSize int) ([]domain.Idea, int64, error)
	// Stats summarizes the pool from the user's perspective.
	Stats(ctx context.Context, userID string) (*services.IdeaStats, error)
}

// SwipeService defines swipe recording and reporting operations.
type SwipeService interface {
	// Record stores a like/dislike, overwriting any previous outcome.
	Record(ctx context.Context, userID, ideaID string, liked bool) (*domain.Swipe, error)
	// ListPage returns the user's swipes, newest first.
	ListPage(ctx context.Context, userID string, likedOnly bool, page, pageSize int) ([]domain.Swipe, int64, error)
	// Stats aggregates the user's swipe history.
	Stats(ctx context.Context, userID string) (*services.SwipeStats, error)
}

// RecommendationService defines scoring, similarity, and training operations.
type RecommendationService interface {
	// Recommend returns ranked unseen ideas for the user.
	Recommend(ctx context.Context, userID string, limit int) ([]recs.ScoredIdea, error)
	// Explain returns the prediction for one pair with its driving factors.
	Explain(ctx context.Context, userID, ideaID string) (*recs.Explanation, error)
	// Similar returns ideas most similar to the given one.
	Similar(ctx context.Context, ideaID string, limit int) ([]recs.ScoredIdea, error)
	// Train retrains the model from the full corpus.
	Train(ctx context.Context) (*recs.TrainingReport, error)
	// Metrics returns the stored evaluation of the last successful run.
	Metrics(ctx context.Context) (*domain.ModelMeta, error)
	// Info snapshots the in-memory model state plus corpus sizes.
	Info(ctx context.Context) (*services.RecStats, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for accounts, ideas, swipes, and
// recommendations. It depends on abstract service interfaces to keep
// transport concerns separate from business logic. DB is optional and only
// used for best-effort ETag pre-checks on list endpoints.
type Handlers struct {
	userSvc  UserService
	ideaSvc  IdeaService
	swipeSvc SwipeService
	recSvc   RecommendationService
	db       *gorm.DB
}

// New constructs and returns a Handlers instance bound to the given services.
func New(userSvc UserService, ideaSvc IdeaService, swipeSvc SwipeService, recSvc RecommendationService, db *gorm.DB) *Handlers {
	return &Handlers{userSvc: userSvc, ideaSvc: ideaSvc, swipeSvc: swipeSvc, recSvc: recSvc, db: db}
}

// userID extracts the authenticated user id from Gin context (set by the
// bearer-token middleware).
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

//
// Idempotency helpers
//

// idemKey extracts an idempotency key if an upstream middleware has already
// validated/stashed it, falling back to the raw header.
func idemKey(c *gin.Context) string {
	if v, ok := middleware.GetIdempotencyKey(c); ok {
		return v
	}
	return strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
}

// replayedIdempotency reports whether a prior completed result exists for
// this (user, route, key) and tags the response when it does. Best effort:
// lookup failures never block processing.
func (h *Handlers) replayedIdempotency(c *gin.Context) bool {
	key := idemKey(c)
	if key == "" || h.db == nil {
		return false
	}
	rec, err := repo.GetIdempotency(c.Request.Context(), h.db, userID(c), c.FullPath(), key, time.Now().UTC())
	if err != nil || rec == nil {
		return false
	}
	c.Header("Idempotency-Replayed", "true")
	return true
}

// storeIdempotency records a completed operation for later replay detection.
// Best effort: storage failures are ignored.
func (h *Handlers) storeIdempotency(c *gin.Context, resultID string, status int) {
	key := idemKey(c)
	if key == "" || h.db == nil {
		return
	}
	_, _ = repo.CreateIdempotency(c.Request.Context(), h.db, userID(c), c.FullPath(), key, resultID, status, 24*time.Hour)
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}
