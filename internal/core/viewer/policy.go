package viewer

// Reason explains a preview policy decision
type Reason string

const (
	ReasonFullAccess           Reason = "allowed-full-access"
	ReasonWithinPreview        Reason = "allowed-within-preview"
	ReasonPreviewLimitExceeded Reason = "preview-limit-exceeded"
)

type Decision struct {
	Allow  bool
	Reason Reason
}

// CanRenderPage decides if the requested page may be rendered.
// It is stateless: moving back below the limit after a block is always allowed.
// The requested page is expected to be already clamped to the document bounds.
func CanRenderPage(hasFullAccess bool, requestedPage int, previewLimit int) Decision {
	if hasFullAccess {
		return Decision{Allow: true, Reason: ReasonFullAccess}
	}

	if requestedPage <= previewLimit {
		return Decision{Allow: true, Reason: ReasonWithinPreview}
	}

	return Decision{Allow: false, Reason: ReasonPreviewLimitExceeded}
}
