package cache

import (
	"net/url"
	"sync"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// documentIndex caches documents under both their id and their url
type documentIndex struct {
	cache *expirable.LRU[string, model.Document]
	mu    sync.RWMutex
}

func newDocumentIndex(size int, ttl time.Duration) *documentIndex {
	return &documentIndex{
		cache: expirable.NewLRU[string, model.Document](size, nil, ttl),
	}
}

func (i *documentIndex) add(doc model.Document) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.cache.Add(idKey(doc.ID()), doc)
	i.cache.Add(urlKey(doc.URL()), doc)
}

func (i *documentIndex) byID(id model.DocumentID) (model.Document, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.cache.Get(idKey(id))
}

func (i *documentIndex) byURL(u *url.URL) (model.Document, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.cache.Get(urlKey(u))
}

// evict removes the document and the previously cached version of it,
// whose url may differ
func (i *documentIndex) evict(doc model.Document) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if previous, ok := i.cache.Peek(idKey(doc.ID())); ok {
		i.cache.Remove(urlKey(previous.URL()))
	}

	if previous, ok := i.cache.Peek(urlKey(doc.URL())); ok {
		i.cache.Remove(idKey(previous.ID()))
	}

	i.cache.Remove(idKey(doc.ID()))
	i.cache.Remove(urlKey(doc.URL()))
}

func idKey(id model.DocumentID) string {
	return "id|" + string(id)
}

func urlKey(u *url.URL) string {
	return "url|" + u.String()
}
