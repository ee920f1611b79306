// Package repository holds the in-memory seat registry and the cabin
// layout it is built from.  The sentinel values below let higher layers
// such as handlers distinguish failure scenarios without string
// matching.
package repository

import "errors"

// ErrSeatNotFound is returned by lookups for an id that is not part of
// the cabin.  Toggle never returns it: unknown ids are a no-op there.
var ErrSeatNotFound = errors.New("seat not found")

// ErrDuplicateSeat is returned when a registry is built from a seat
// list that repeats a seat id.
var ErrDuplicateSeat = errors.New("duplicate seat id")

// ErrInvalidLayout is returned when a cabin is requested with a
// non-positive seat count or price.
var ErrInvalidLayout = errors.New("invalid cabin layout")
