package auth

// SessionData represents the authenticated session context for a request.
// Role and Status are loaded fresh from the database on every request, not
// from the token: account status can change server-side (pending -> approved)
// after a token was issued.
type SessionData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// IsAdmin reports whether the session belongs to an admin account
func (s *SessionData) IsAdmin() bool {
	return s.Role == "admin"
}

// IsApproved reports whether the account has been approved for campaign launches
func (s *SessionData) IsApproved() bool {
	return s.Status == "approved"
}
