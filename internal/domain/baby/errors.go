package baby

import "errors"

var (
	ErrBabyNotFound   = errors.New("baby not found")
	ErrTooManyBabies  = errors.New("family baby limit reached")
	ErrNoFamilyAccess = errors.New("no access to this family")
)
