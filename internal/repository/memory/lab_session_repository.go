package memory

import (
	"time"

	"forensichub-be/pkg/lab"

	"github.com/patrickmn/go-cache"
)

// LabSessionRepository keeps live lab sessions in process memory. A
// session that sits idle past the TTL is evicted with its transcript.
type LabSessionRepository struct {
	cache *cache.Cache
}

func NewLabSessionRepository(ttl time.Duration) *LabSessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &LabSessionRepository{
		cache: c,
	}
}

func (r *LabSessionRepository) Save(session *lab.Session) {
	r.cache.Set(session.ID.String(), session, cache.DefaultExpiration)
}

func (r *LabSessionRepository) Get(sessionID string) (*lab.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*lab.Session), true
	}
	return nil, false
}

// Touch resets the idle clock without replacing the value.
func (r *LabSessionRepository) Touch(sessionID string) {
	if x, found := r.cache.Get(sessionID); found {
		r.cache.Set(sessionID, x, cache.DefaultExpiration)
	}
}

func (r *LabSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
