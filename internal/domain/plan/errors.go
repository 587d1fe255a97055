package plan

import "errors"

var (
	ErrPlanNotFound     = errors.New("education plan not found")
	ErrActivityNotFound = errors.New("plan activity not found")
	ErrBabyNotFound     = errors.New("baby not found")
	ErrNoFamilyAccess   = errors.New("no access to this family")
	ErrDeleteNotAllowed = errors.New("only the plan author or the family creator may delete a plan")
	ErrPlanNotActive    = errors.New("plan is not active")
)
