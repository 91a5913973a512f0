package repository

import "errors"

// Sentinel kinds for ranking store errors.
var (
	ErrNotFound         = errors.New("user not found")
	ErrAlreadyPopulated = errors.New("store already populated")
)
