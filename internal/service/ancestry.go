package service

import (
	"context"
	"errors"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// ancestry is the result of an upward walk over parent pointers.
type ancestry struct {
	// Chain holds the visited folders, leaf first.
	Chain []model.Folder
	// Reached is set when the walk stopped at the requested stop id.
	Reached bool
	// Cycle is set when a folder was seen twice.
	Cycle bool
	// Broken is set when a parent could not be loaded for the owner.
	Broken bool
}

// rootToLeaf returns Chain reversed.
func (a ancestry) rootToLeaf() []model.Folder {
	out := make([]model.Folder, len(a.Chain))
	for i, f := range a.Chain {
		out[len(a.Chain)-1-i] = f
	}
	return out
}

// walkAncestry follows parent_id upward from startID using folders owned by ownerID.
// It stops at a nil parent, at stopID when non-empty, at a missing folder, or at the
// first repeated id. Every id is loaded at most once, so the walk is bounded by the
// owner's folder count whatever the stored pointers look like.
func walkAncestry(ctx context.Context, folders repository.FolderRepository, ownerID, startID, stopID string) (ancestry, error) {
	var out ancestry
	visited := make(map[string]struct{})

	next := &startID
	for next != nil {
		id := *next
		if _, seen := visited[id]; seen {
			out.Cycle = true
			return out, nil
		}
		visited[id] = struct{}{}

		f, err := folders.FindByID(ctx, id, ownerID)
		if errors.Is(err, repository.ErrNotFound) {
			out.Broken = true
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out.Chain = append(out.Chain, *f)

		if stopID != "" && f.ID == stopID {
			out.Reached = true
			return out, nil
		}
		next = f.ParentID
	}
	return out, nil
}
