package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"radiology-consult-be/pkg/deliberation"
)

// SessionRepository keeps live deliberation sessions in process memory.
// Entries expire with the configured TTL; nothing is persisted across
// restarts, by product requirement.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// Purge expired sessions every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *deliberation.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*deliberation.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*deliberation.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
