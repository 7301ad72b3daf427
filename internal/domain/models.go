// Package domain defines the persistence models for users, startup ideas,
// swipes, and idea views. These types are mapped with GORM and form the core
// data layer of the SmartSwipe application.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// User represents a registered account. A user selects between one and eight
// interest domains during onboarding; ideas and recommendations are filtered
// to that selection.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier.
//   - PasswordHash: bcrypt hash of the user's password; never serialized.
//   - SelectedDomains: JSON array of domain labels, ordered by addition.
//   - OnboardingCompleted: set once the user has confirmed a domain selection.
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID                  string                      `json:"id"                   gorm:"type:char(36);primaryKey"`
	Email               string                      `json:"email"                gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash        string                      `json:"-"                    gorm:"type:varchar(255);not null"`
	SelectedDomains     datatypes.JSONSlice[string] `json:"selected_domains"`
	OnboardingCompleted bool                        `json:"onboarding_completed" gorm:"not null;default:false"`
	CreatedAt           time.Time                   `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Idea represents a generated startup idea. Ideas are immutable once created:
// the generator inserts them, users swipe on them, and the recommender scores
// them, but no field is ever updated in place.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Title: unique human-readable name; uniqueness dedupes generator output.
//   - Description: short problem/solution summary.
//   - Tags: JSON array of free-form tag strings.
//   - Domain: the category label the idea belongs to (e.g. "FinTech").
//   - GeneratedForDomains: JSON array recording which domain selection
//     triggered the generation of this idea.
//   - CreatedAt: timestamp managed by GORM.
type Idea struct {
	ID                  string                      `json:"id"          gorm:"type:char(36);primaryKey"`
	Title               string                      `json:"title"       gorm:"type:varchar(255);not null;uniqueIndex:ux_ideas_title"`
	Description         string                      `json:"description" gorm:"type:text;not null"`
	Tags                datatypes.JSONSlice[string] `json:"tags"`
	Domain              string                      `json:"domain"      gorm:"type:varchar(64);not null;index:idx_ideas_domain"`
	GeneratedForDomains datatypes.JSONSlice[string] `json:"generated_for_domains,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
}

// TableName returns the database table name for Idea.
func (Idea) TableName() string { return "ideas" }

// Swipe records a user's like/dislike decision on an idea. The (user, idea)
// pair is unique: a repeat swipe overwrites the outcome of the existing row,
// it never creates a second one.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID / IdeaID: foreign keys forming the unique pair.
//   - Liked: true for a like (right swipe), false for a dislike.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM; UpdatedAt moves
//     when an outcome is overwritten.
type Swipe struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;uniqueIndex:ux_swipes_user_idea,priority:1;index:idx_swipes_user"`
	IdeaID    string    `json:"idea_id"    gorm:"type:char(36);not null;uniqueIndex:ux_swipes_user_idea,priority:2"`
	Liked     bool      `json:"liked"      gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Idea is the swiped idea. Swipes are cascade-deleted with their idea.
	Idea Idea `json:"-" gorm:"foreignKey:IdeaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// User is the swiping account. Swipes are cascade-deleted with their user.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Swipe.
func (Swipe) TableName() string { return "swipes" }

// IdeaView marks that an idea was shown to a user. Views are append-only and
// idempotent: creating a view for an existing (user, idea) pair is a no-op.
// The recommendation pipeline relies on views to exclude already-seen ideas.
type IdeaView struct {
	ID       string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID   string    `json:"user_id"   gorm:"type:char(36);not null;uniqueIndex:ux_views_user_idea,priority:1;index:idx_views_user"`
	IdeaID   string    `json:"idea_id"   gorm:"type:char(36);not null;uniqueIndex:ux_views_user_idea,priority:2"`
	ViewedAt time.Time `json:"viewed_at" gorm:"autoCreateTime"`

	// Idea is the viewed idea. Views are cascade-deleted with their idea.
	Idea Idea `json:"-" gorm:"foreignKey:IdeaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// User is the viewing account. Views are cascade-deleted with their user.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for IdeaView.
func (IdeaView) TableName() string { return "idea_views" }

// ModelMeta is the persisted snapshot of the currently active trained model.
// Exactly one row (id = "current") exists at a time; each successful training
// pass replaces it wholesale.
type ModelMeta struct {
	ID        string    `json:"id"         gorm:"type:varchar(16);primaryKey"`
	ModelKind string    `json:"model_kind" gorm:"type:varchar(32);not null"`
	Accuracy  float64   `json:"accuracy"`
	Precision float64   `json:"precision"`
	Recall    float64   `json:"recall"`
	F1        float64   `json:"f1"`
	ROCAUC    float64   `json:"roc_auc"    gorm:"column:roc_auc"`
	TrainedAt time.Time `json:"trained_at"`
}

// TableName returns the database table name for ModelMeta.
func (ModelMeta) TableName() string { return "ml_model_meta" }
