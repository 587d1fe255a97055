package record

import "errors"

var (
	ErrRecordNotFound   = errors.New("growth record not found")
	ErrBabyNotFound     = errors.New("baby not found")
	ErrNoFamilyAccess   = errors.New("no access to this family")
	ErrDeleteNotAllowed = errors.New("only the author or the family creator can delete")
)
