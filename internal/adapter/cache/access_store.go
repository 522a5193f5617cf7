package cache

import (
	"context"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// AccessStore caches access states. Since an access is never revoked,
// a successful grant is written through the cache.
type AccessStore struct {
	backend     port.AccessStore
	accessCache *expirable.LRU[string, bool]
}

// HasFullAccess implements [port.AccessStore].
func (s *AccessStore) HasFullAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID) (bool, error) {
	if userID == "" {
		return false, nil
	}

	cacheKey := accessKey(userID, documentID)

	if hasAccess, exists := s.accessCache.Get(cacheKey); exists {
		return hasAccess, nil
	}

	hasAccess, err := s.backend.HasFullAccess(ctx, userID, documentID)
	if err != nil {
		return false, err
	}

	s.accessCache.Add(cacheKey, hasAccess)

	return hasAccess, nil
}

// GrantAccess implements [port.AccessStore].
func (s *AccessStore) GrantAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID, reference string) error {
	cacheKey := accessKey(userID, documentID)

	if err := s.backend.GrantAccess(ctx, userID, documentID, reference); err != nil {
		s.accessCache.Remove(cacheKey)
		return err
	}

	s.accessCache.Add(cacheKey, true)

	return nil
}

// QueryPurchases implements [port.AccessStore].
func (s *AccessStore) QueryPurchases(ctx context.Context, userID model.UserID) ([]model.Purchase, error) {
	return s.backend.QueryPurchases(ctx, userID)
}

func NewAccessStore(backend port.AccessStore, size int, ttl time.Duration) *AccessStore {
	return &AccessStore{
		backend:     backend,
		accessCache: expirable.NewLRU[string, bool](size, nil, ttl),
	}
}

func accessKey(userID model.UserID, documentID model.DocumentID) string {
	return string(userID) + "|" + string(documentID)
}

var _ port.AccessStore = &AccessStore{}
