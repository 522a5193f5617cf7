package viewer

import (
	"github.com/pkg/errors"
)

var (
	ErrSessionClosed        = errors.New("session closed")
	ErrNotReady             = errors.New("document not loaded yet")
	ErrLoadFailed           = errors.New("document load failed")
	ErrNotPaginated         = errors.New("document is not paginated")
	ErrPreviewLimitExceeded = errors.New("preview limit exceeded")
	ErrDocumentTooLarge     = errors.New("document too large")
	ErrUnlockInProgress     = errors.New("unlock already in progress")
	ErrStrategyUnavailable  = errors.New("strategy unavailable")
	ErrNoPendingUnlock      = errors.New("no pending unlock")
	ErrNotPurchasable       = errors.New("document cannot be purchased from this session")
)
