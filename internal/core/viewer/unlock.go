package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/pkg/errors"
)

// Prompt is the purchase call-to-action presented to the viewer
type Prompt struct {
	DocumentID   model.DocumentID `json:"documentId"`
	Title        string           `json:"title"`
	Price        model.Price      `json:"price"`
	PreviewLimit int              `json:"previewLimit"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// PurchaseFunc submits the purchase and records the access grant.
type PurchaseFunc func(ctx context.Context) error

// UnlockFlow drives the transition of a session from preview to full access.
type UnlockFlow struct {
	session  *Session
	purchase PurchaseFunc

	mu         sync.Mutex
	pending    *Prompt
	confirming bool
	onPrompt   []func(prompt Prompt)
}

func NewUnlockFlow(session *Session, purchase PurchaseFunc) *UnlockFlow {
	flow := &UnlockFlow{
		session:  session,
		purchase: purchase,
	}

	session.onUnlock(func() {
		flow.RequestUnlock()
	})

	return flow
}

// RequestUnlock returns the pending purchase prompt, creating it if needed.
// It returns nil when the session has nothing left to unlock: full access,
// a document shorter than the preview or a document not loaded.
func (f *UnlockFlow) RequestUnlock() *Prompt {
	if !f.session.Unlockable() {
		return nil
	}

	f.mu.Lock()

	if f.pending != nil {
		prompt := f.pending
		f.mu.Unlock()
		return prompt
	}

	prompt := f.newPrompt()
	f.pending = prompt
	listeners := append([]func(Prompt){}, f.onPrompt...)

	f.mu.Unlock()

	for _, fn := range listeners {
		fn(*prompt)
	}

	return prompt
}

func (f *UnlockFlow) Pending() *Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending
}

// Confirm submits the purchase of the pending prompt. On success the session
// is granted full access without reloading its document. On failure the
// prompt stays pending and the access state is left unchanged.
func (f *UnlockFlow) Confirm(ctx context.Context) error {
	if f.session.HasFullAccess() {
		f.mu.Lock()
		f.pending = nil
		f.mu.Unlock()
		return nil
	}

	f.mu.Lock()
	if f.pending == nil {
		f.mu.Unlock()
		return errors.WithStack(ErrNoPendingUnlock)
	}
	f.mu.Unlock()

	if err := f.submit(ctx); err != nil {
		return errors.WithStack(err)
	}

	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()

	return nil
}

// Purchase buys a gated document whose pages are all within the preview,
// without any prompt.
func (f *UnlockFlow) Purchase(ctx context.Context) error {
	if f.session.HasFullAccess() {
		return nil
	}

	if !f.session.Purchasable() {
		return errors.WithStack(ErrNotPurchasable)
	}

	if err := f.submit(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (f *UnlockFlow) submit(ctx context.Context) error {
	f.mu.Lock()
	if f.confirming {
		f.mu.Unlock()
		return errors.WithStack(ErrUnlockInProgress)
	}
	f.confirming = true
	f.mu.Unlock()

	err := f.purchase(ctx)

	f.mu.Lock()
	f.confirming = false
	f.mu.Unlock()

	if err != nil {
		return errors.WithStack(err)
	}

	f.session.GrantAccess()

	return nil
}

func (f *UnlockFlow) OnPrompt(fn func(prompt Prompt)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onPrompt = append(f.onPrompt, fn)
}

func (f *UnlockFlow) newPrompt() *Prompt {
	prompt := &Prompt{
		PreviewLimit: f.session.PreviewLimit(),
		CreatedAt:    time.Now(),
	}

	if doc := f.session.Document(); doc != nil {
		prompt.DocumentID = doc.ID()
		prompt.Title = doc.Title()
		prompt.Price = doc.Price()
	}

	return prompt
}
