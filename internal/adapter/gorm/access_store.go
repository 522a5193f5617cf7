package gorm

import (
	"context"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HasFullAccess implements port.AccessStore.
func (s *Store) HasFullAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID) (bool, error) {
	if userID == "" {
		return false, nil
	}

	var count int64

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		err := db.Model(&Purchase{}).
			Where("user_id = ? and document_id = ?", string(userID), string(documentID)).
			Count(&count).Error
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return count > 0, nil
}

// GrantAccess implements port.AccessStore.
func (s *Store) GrantAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID, reference string) error {
	if userID == "" {
		return errors.WithStack(port.ErrUnauthenticated)
	}

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		var count int64
		if err := db.Model(&Document{}).Where("id = ?", string(documentID)).Count(&count).Error; err != nil {
			return errors.WithStack(err)
		}

		if count == 0 {
			return errors.WithStack(port.ErrNotFound)
		}

		purchase := &Purchase{
			UserID:     string(userID),
			DocumentID: string(documentID),
			Reference:  reference,
			GrantedAt:  time.Now().UTC(),
		}

		// An existing grant is kept as is
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(purchase).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// QueryPurchases implements port.AccessStore.
func (s *Store) QueryPurchases(ctx context.Context, userID model.UserID) ([]model.Purchase, error) {
	var purchases []*Purchase

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Where("user_id = ?", string(userID)).Order("granted_at asc").Find(&purchases).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]model.Purchase, 0, len(purchases))
	for _, p := range purchases {
		results = append(results, &wrappedPurchase{p})
	}

	return results, nil
}
