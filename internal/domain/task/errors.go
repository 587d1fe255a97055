package task

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNoFamilyAccess    = errors.New("no access to this family")
	ErrAssigneeNotMember = errors.New("assignee is not an active family member")
	ErrDeleteNotAllowed  = errors.New("only the assigner or the family creator may delete a task")
)
