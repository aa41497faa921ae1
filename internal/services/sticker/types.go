package sticker

// ScanMeta is the request metadata recorded with every scan.
type ScanMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// ScanOutcome tells the transport layer what to do with a landing-page hit.
// The service only decides which outcome applies; it renders nothing.
type ScanOutcome string

const (
	// OutcomeNotAssigned: the sticker exists but no ad has claimed it.
	OutcomeNotAssigned ScanOutcome = "not_assigned"
	// OutcomeNotActivated: claimed, but the owner has not activated it yet.
	OutcomeNotActivated ScanOutcome = "not_activated"
	// OutcomeActive: activated; the caller should redirect to PublicURL.
	OutcomeActive ScanOutcome = "active"
)

// ScanResult is the decision for one landing-page hit.
type ScanResult struct {
	Outcome   ScanOutcome `json:"outcome"`
	PublicURL string      `json:"public_url,omitempty"`
}

// ActivationResult reports a successful activation. AlreadyActive marks the
// idempotent path where the sticker and ad were live before the call.
type ActivationResult struct {
	PublicURL     string `json:"public_url"`
	AlreadyActive bool   `json:"already_active"`
}
