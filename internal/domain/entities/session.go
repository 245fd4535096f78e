package entities

// Session identifies an authenticated user. Token issuance and refresh live
// in the external auth service; the backend only ever resolves a bearer
// token to this shape.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
