package domain

// SessionStatusActive is the only status minted today.
const SessionStatusActive = "active"

// Session acknowledges the start of a purchase. It is not persisted.
type Session struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	SKU       string `json:"sku"`
}

// NewSession returns an active session for sku. The SKU is echoed byte for byte.
func NewSession(id, sku string) *Session {
	return &Session{SessionID: id, Status: SessionStatusActive, SKU: sku}
}
