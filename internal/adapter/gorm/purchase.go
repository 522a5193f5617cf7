package gorm

import (
	"time"

	"github.com/bornholm/folio/internal/core/model"
)

type Purchase struct {
	UserID     string    `gorm:"primaryKey"`
	DocumentID string    `gorm:"primaryKey"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE"`
	Reference  string
	GrantedAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

type wrappedPurchase struct {
	p *Purchase
}

// DocumentID implements model.Purchase.
func (w *wrappedPurchase) DocumentID() model.DocumentID {
	return model.DocumentID(w.p.DocumentID)
}

// GrantedAt implements model.Purchase.
func (w *wrappedPurchase) GrantedAt() time.Time {
	return w.p.GrantedAt
}

// Reference implements model.Purchase.
func (w *wrappedPurchase) Reference() string {
	return w.p.Reference
}

// UserID implements model.Purchase.
func (w *wrappedPurchase) UserID() model.UserID {
	return model.UserID(w.p.UserID)
}

var _ model.Purchase = &wrappedPurchase{}
