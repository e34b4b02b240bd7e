package model

import "time"

// SharedLink grants read-only access to the subtree rooted at FolderID.
type SharedLink struct {
	Token      string     `json:"token"`
	FolderID   string     `json:"folder_id"`
	OwnerID    string     `json:"owner_id"`
	OwnerEmail string     `json:"owner_email,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the link is past its expiry at the given instant.
// Links without an expiry never expire.
func (l *SharedLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}
