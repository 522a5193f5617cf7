package gorm

import (
	"context"
	"net/url"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetDocumentByID implements port.DocumentStore.
func (s *Store) GetDocumentByID(ctx context.Context, id model.DocumentID) (model.Document, error) {
	var document Document

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.First(&document, "id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedDocument{&document}, nil
}

// FindDocumentByURL implements port.DocumentStore.
func (s *Store) FindDocumentByURL(ctx context.Context, u *url.URL) (model.Document, error) {
	if u == nil {
		return nil, errors.New("document url is missing")
	}

	var document Document

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Order("created_at asc").First(&document, "url = ?", u.String()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedDocument{&document}, nil
}

// SaveDocument implements port.DocumentStore.
func (s *Store) SaveDocument(ctx context.Context, doc model.Document) error {
	if doc.URL() == nil {
		return errors.New("document url is missing")
	}

	document := fromDocument(doc)

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"updated_at", "url", "title", "file_name", "gated",
				"preview_page_limit", "price_amount", "price_currency",
			}),
		}).Create(document).Error
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// QueryDocuments implements port.DocumentStore.
func (s *Store) QueryDocuments(ctx context.Context, opts port.QueryDocumentsOptions) ([]model.Document, int64, error) {
	var (
		documents []*Document
		total     int64
	)

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Model(&Document{}).Count(&total).Error; err != nil {
			return errors.WithStack(err)
		}

		limit := 10
		if opts.Limit != nil {
			limit = *opts.Limit
		}

		page := 0
		if opts.Page != nil {
			page = *opts.Page
		}

		if err := db.Model(&Document{}).Order("created_at desc, id asc").Limit(limit).Offset(page * limit).Find(&documents).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	results := make([]model.Document, 0, len(documents))
	for _, d := range documents {
		results = append(results, &wrappedDocument{d})
	}

	return results, total, nil
}

// IncrementViewCount implements port.DocumentStore.
func (s *Store) IncrementViewCount(ctx context.Context, id model.DocumentID) error {
	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		res := db.Model(&Document{}).Where("id = ?", string(id)).UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}

		if res.RowsAffected == 0 {
			return errors.WithStack(port.ErrNotFound)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ViewCount returns the number of times the document has been opened
func (s *Store) ViewCount(ctx context.Context, id model.DocumentID) (int64, error) {
	var document Document

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Select("view_count").First(&document, "id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return document.ViewCount, nil
}
