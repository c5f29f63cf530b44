package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrMissingFile          = errors.New("no image in the request")
	ErrUnsupportedMediaType = errors.New("invalid image type")
)
