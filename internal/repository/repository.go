package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup, including rows owned by someone else.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)
