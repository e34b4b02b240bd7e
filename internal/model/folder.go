package model

import "time"

// Folder is a node in an owner's folder forest.
// ParentID is nil for root-level folders.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoot reports whether the folder sits at the top level of its owner's data room.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
