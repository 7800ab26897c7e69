package ssg

import "errors"

var (
	ErrInvalidScriptMode = errors.New("ssg: invalid script mode")
	ErrNoRenderer        = errors.New("ssg: renderer is required")
	ErrNoIndexHTML       = errors.New("ssg: index html is required")
	ErrNoAppElement      = errors.New("ssg: index html has no element with id \"app\"")
	ErrTemplateNotFound  = errors.New("ssg: no template for route")
	ErrNoBase            = errors.New("ssg: sitemap needs an absolute base url")
)
