package model

// Principal is the authenticated caller on whose behalf an operation runs.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Anonymous reports whether no identity has been resolved.
func (p Principal) Anonymous() bool {
	return p.ID == ""
}
