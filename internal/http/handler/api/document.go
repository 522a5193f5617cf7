package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

type ListDocumentsResponse struct {
	Documents []DocumentHeader `json:"documents"`
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	Limit     int              `json:"limit"`
}

type DocumentHeader struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	FileName         string         `json:"fileName"`
	Category         model.Category `json:"category"`
	Gated            bool           `json:"gated"`
	PreviewPageLimit int            `json:"previewPageLimit,omitempty"`
	Price            *model.Price   `json:"price,omitempty"`
	ViewerURL        string         `json:"viewerUrl"`
	DownloadURL      string         `json:"downloadUrl"`
}

func (h *Handler) documentHeader(doc model.Document) DocumentHeader {
	header := DocumentHeader{
		ID:               string(doc.ID()),
		Title:            doc.Title(),
		FileName:         doc.FileName(),
		Category:         doc.Category(),
		Gated:            doc.Gated(),
		PreviewPageLimit: doc.PreviewPageLimit(),
		ViewerURL:        h.routes.Viewer(doc.ID()),
		DownloadURL:      h.routes.Download(doc.ID()),
	}

	if price := doc.Price(); !price.Free() {
		header.Price = &price
	}

	return header
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := getQueryPage(query, 0)
	limit := getQueryLimit(query, 10)

	ctx := r.Context()

	documents, total, err := h.manager.QueryDocuments(ctx, port.QueryDocumentsOptions{
		Page:  &page,
		Limit: &limit,
	})
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	res := ListDocumentsResponse{
		Documents: make([]DocumentHeader, 0, len(documents)),
		Total:     total,
		Page:      page,
		Limit:     limit,
	}

	for _, d := range documents {
		res.Documents = append(res.Documents, h.documentHeader(d))
	}

	writeJSON(w, r, http.StatusOK, res)
}

type GetDocumentResponse struct {
	Document DocumentHeader `json:"document"`
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := model.DocumentID(r.PathValue("documentID"))

	doc, err := h.manager.GetDocument(r.Context(), documentID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, GetDocumentResponse{Document: h.documentHeader(doc)})
}

type GetAccessResponse struct {
	DocumentID    string `json:"documentId"`
	Gated         bool   `json:"gated"`
	HasFullAccess bool   `json:"hasFullAccess"`
}

func (h *Handler) handleGetAccess(w http.ResponseWriter, r *http.Request) {
	documentID := model.DocumentID(r.PathValue("documentID"))

	ctx := r.Context()

	doc, err := h.manager.GetDocument(ctx, documentID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	hasFullAccess, err := h.manager.HasFullAccess(ctx, httpCtx.User(ctx), doc.ID())
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, GetAccessResponse{
		DocumentID:    string(doc.ID()),
		Gated:         doc.Gated(),
		HasFullAccess: hasFullAccess || !doc.Gated(),
	})
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	documentID := model.DocumentID(r.PathValue("documentID"))

	ctx := r.Context()

	doc, reader, err := h.manager.Download(ctx, httpCtx.User(ctx), documentID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), h.routes.Viewer(documentID))
		return
	}

	defer reader.Close()

	fileName := doc.FileName()
	if fileName == "" {
		fileName = string(doc.ID()) + doc.Extension()
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	head = head[:n]

	contentType := mimetype.Detect(head).String()
	if byExtension := mime.TypeByExtension(doc.Extension()); byExtension != "" {
		contentType = byExtension
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(head); err != nil {
		slog.ErrorContext(ctx, "could not write response", slog.Any("error", errors.WithStack(err)))
		return
	}

	if _, err := io.Copy(w, reader); err != nil {
		slog.ErrorContext(ctx, "could not write response", slog.Any("error", errors.WithStack(err)), slog.String("document", string(doc.ID())))
	}
}
