package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

type memoryAccessStore struct {
	mu      sync.Mutex
	grants  map[string]string
	lookups int
}

func (s *memoryAccessStore) HasFullAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	_, exists := s.grants[string(userID)+"/"+string(documentID)]

	return exists, nil
}

func (s *memoryAccessStore) GrantAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if documentID == "unknown" {
		return errors.WithStack(port.ErrNotFound)
	}

	s.grants[string(userID)+"/"+string(documentID)] = reference

	return nil
}

func (s *memoryAccessStore) QueryPurchases(ctx context.Context, userID model.UserID) ([]model.Purchase, error) {
	return nil, nil
}

func TestAccessStoreGrantInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	backend := &memoryAccessStore{grants: map[string]string{}}
	store := NewAccessStore(backend, 10, time.Minute)

	for i := 0; i < 3; i++ {
		hasAccess, err := store.HasFullAccess(ctx, "basic-auth:alice", "doc-1")
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if hasAccess {
			t.Errorf("hasAccess: expected false before purchase")
		}
	}

	if e, g := 1, backend.lookups; e != g {
		t.Errorf("backend.lookups: expected '%v', got '%v'", e, g)
	}

	if err := store.GrantAccess(ctx, "basic-auth:alice", "doc-1", "ref"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	hasAccess, err := store.HasFullAccess(ctx, "basic-auth:alice", "doc-1")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !hasAccess {
		t.Errorf("hasAccess: expected true right after the grant")
	}

	if err := store.GrantAccess(ctx, "basic-auth:alice", "unknown", "ref"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("store.GrantAccess(): expected ErrNotFound, got '%v'", err)
	}

	hasAccess, err = store.HasFullAccess(ctx, "", "doc-1")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if hasAccess {
		t.Errorf("hasAccess: expected false for an empty user")
	}
}
