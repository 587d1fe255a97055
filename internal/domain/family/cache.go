package family

import "time"

// Cache holds family rows for detail reads. Membership and capacity checks
// never consult it; every authorization decision reads committed state.
type Cache interface {
	Get(familyID string) (*Family, bool)
	Set(familyID string, family *Family, ttl time.Duration)
	Delete(familyID string)
}

type noopCache struct{}

func (noopCache) Get(string) (*Family, bool) {
	return nil, false
}

func (noopCache) Set(string, *Family, time.Duration) {}

func (noopCache) Delete(string) {}

// NoopCache returns a Cache that never hits.
func NoopCache() Cache {
	return noopCache{}
}
