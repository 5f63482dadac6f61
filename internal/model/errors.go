package model

import "errors"

// ErrInvalidInterval marks a slot whose start does not precede its end.
// The service layer maps it onto its validation sentinel.
var ErrInvalidInterval = errors.New("slot interval start must precede end")
