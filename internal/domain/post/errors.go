package post

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNoFamilyAccess   = errors.New("no access to this family")
	ErrDeleteNotAllowed = errors.New("only the author or the family creator may delete a post")
)
