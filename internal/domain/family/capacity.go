package family

// Limits holds the capacity ceilings checked at the moment of mutation.
// Counts are read under a row lock on the family record, so the ceilings
// are strict rather than best-effort.
type Limits struct {
	MaxMembers int
	MaxBabies  int
	CodeLength int
}

func (l Limits) withDefaults() Limits {
	if l.MaxMembers <= 0 {
		l.MaxMembers = 10
	}
	if l.MaxBabies <= 0 {
		l.MaxBabies = 5
	}
	if l.CodeLength <= 0 {
		l.CodeLength = 8
	}
	return l
}

func (l Limits) MemberCapacityReached(count int64) bool {
	return count >= int64(l.MaxMembers)
}

func (l Limits) BabyCapacityReached(count int64) bool {
	return count >= int64(l.MaxBabies)
}
