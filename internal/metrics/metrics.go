package metrics

const Namespace = "folio"

const (
	LabelCategory = "category"
	LabelStatus   = "status"
	LabelStrategy = "strategy"
)

const (
	StatusSucceeded = "succeeded"
	StatusDeclined  = "declined"
	StatusFailed    = "failed"
	StatusDenied    = "denied"
)
