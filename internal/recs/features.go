package recs

import (
	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// FeatureCount is the fixed width of every extracted feature vector.
const FeatureCount = 8

// UserStats carries the per-user swipe aggregates needed at scoring time.
// During training they are derived from the dataset; at serve time the
// service layer loads them with a single aggregate query.
type UserStats struct {
	Swipes int64
	Likes  int64
}

// LikeRatio returns likes/swipes, or 0 when the user has not swiped yet.
func (s UserStats) LikeRatio() float64 {
	if s.Swipes == 0 {
		return 0
	}
	return float64(s.Likes) / float64(s.Swipes)
}

// Features extracts the fixed-width vector describing one (user, idea) pair:
//
//	[0] combined title+description length in bytes
//	[1] tag count
//	[2] domain code from the fitted vocabulary (0 for unseen domains)
//	[3] user swipe count
//	[4] user like count
//	[5] user like ratio
//	[6] number of domains the user selected
//	[7] 1 when the idea's domain is among the user's selections, else 0
//
// The layout is shared by training and scoring; both must go through this
// function, with the same vocabulary, so the scaler statistics line up.
func Features(user *domain.User, idea *domain.Idea, stats UserStats, vocab *DomainVocabulary) []float64 {
	f := make([]float64, FeatureCount)
	f[0] = float64(len(idea.Title) + 1 + len(idea.Description))
	f[1] = float64(len(idea.Tags))
	f[2] = vocab.Code(idea.Domain)
	f[3] = float64(stats.Swipes)
	f[4] = float64(stats.Likes)
	f[5] = stats.LikeRatio()
	f[6] = float64(len(user.SelectedDomains))
	if domainSelected(user, idea.Domain) {
		f[7] = 1
	}
	return f
}

func domainSelected(user *domain.User, d string) bool {
	for _, s := range user.SelectedDomains {
		if s == d {
			return true
		}
	}
	return false
}
