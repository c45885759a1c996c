// Package repository persists the booking engine's collections on top of a
// kvstore.Store. Each collection lives under one key and is always read and
// written as a whole JSON document, so a single Set leaves it complete.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches nothing. Services
// return it unchanged so callers can test for it with errors.Is.
var ErrNotFound = errors.New("not found")
