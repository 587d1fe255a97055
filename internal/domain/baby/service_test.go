package baby

import (
	"context"
	"fmt"
	"testing"
	"time"

	"babycare-go/internal/domain/family"
	"github.com/stretchr/testify/require"
)

type fakeBabyRepo struct {
	babies map[string]*Baby
}

func newFakeBabyRepo() *fakeBabyRepo {
	return &fakeBabyRepo{babies: map[string]*Baby{}}
}

func (r *fakeBabyRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeBabyRepo) LockFamily(ctx context.Context, familyID string) error {
	return nil
}

func (r *fakeBabyRepo) Create(ctx context.Context, b *Baby) error {
	copied := *b
	r.babies[b.ID] = &copied
	return nil
}

func (r *fakeBabyRepo) GetByID(ctx context.Context, babyID string) (*Baby, error) {
	found, ok := r.babies[babyID]
	if !ok {
		return nil, ErrBabyNotFound
	}
	copied := *found
	return &copied, nil
}

func (r *fakeBabyRepo) Update(ctx context.Context, b *Baby) error {
	if _, ok := r.babies[b.ID]; !ok {
		return ErrBabyNotFound
	}
	copied := *b
	r.babies[b.ID] = &copied
	return nil
}

func (r *fakeBabyRepo) ListByFamily(ctx context.Context, familyID string) ([]Baby, error) {
	var result []Baby
	for _, b := range r.babies {
		if b.FamilyID == familyID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *fakeBabyRepo) CountByFamily(ctx context.Context, familyID string) (int64, error) {
	var count int64
	for _, b := range r.babies {
		if b.FamilyID == familyID {
			count++
		}
	}
	return count, nil
}

type fakeGate struct {
	members map[string]bool // userID|familyID -> active
}

func (g fakeGate) Authorize(ctx context.Context, userID, familyID string) (bool, error) {
	return g.members[userID+"|"+familyID], nil
}

func TestAddBabySuccess(t *testing.T) {
	repo := newFakeBabyRepo()
	gate := fakeGate{members: map[string]bool{"user-1|fam-1": true}}
	svc := NewService(repo, gate, family.Limits{MaxBabies: 5})

	weight := 3200.0
	created, err := svc.AddBaby(context.Background(), "user-1", CreateInput{
		FamilyID:    "fam-1",
		Name:        "Emma",
		Gender:      GenderFemale,
		Birthdate:   time.Now().AddDate(0, -3, 0),
		BirthWeight: &weight,
	})
	require.NoError(t, err)
	require.Equal(t, "fam-1", created.FamilyID)
	require.NotNil(t, created.CurrentWeight)
	require.Equal(t, weight, *created.CurrentWeight)
}

func TestAddBabyDeniedForNonMember(t *testing.T) {
	svc := NewService(newFakeBabyRepo(), fakeGate{members: map[string]bool{}}, family.Limits{})

	_, err := svc.AddBaby(context.Background(), "stranger", CreateInput{
		FamilyID:  "fam-1",
		Name:      "Emma",
		Gender:    GenderFemale,
		Birthdate: time.Now().AddDate(-1, 0, 0),
	})
	require.ErrorIs(t, err, ErrNoFamilyAccess)
}

func TestAddBabyRejectsFutureBirthdate(t *testing.T) {
	gate := fakeGate{members: map[string]bool{"user-1|fam-1": true}}
	svc := NewService(newFakeBabyRepo(), gate, family.Limits{})

	_, err := svc.AddBaby(context.Background(), "user-1", CreateInput{
		FamilyID:  "fam-1",
		Name:      "Emma",
		Gender:    GenderMale,
		Birthdate: time.Now().AddDate(0, 0, 1),
	})
	require.Error(t, err)
}

func TestAddBabyCapacity(t *testing.T) {
	repo := newFakeBabyRepo()
	gate := fakeGate{members: map[string]bool{"user-1|fam-1": true}}
	svc := NewService(repo, gate, family.Limits{MaxBabies: 5})

	for i := 0; i < 5; i++ {
		_, err := svc.AddBaby(context.Background(), "user-1", CreateInput{
			FamilyID:  "fam-1",
			Name:      fmt.Sprintf("Baby %d", i),
			Gender:    GenderMale,
			Birthdate: time.Now().AddDate(-1, 0, 0),
		})
		require.NoError(t, err)
	}

	_, err := svc.AddBaby(context.Background(), "user-1", CreateInput{
		FamilyID:  "fam-1",
		Name:      "One Too Many",
		Gender:    GenderMale,
		Birthdate: time.Now().AddDate(-1, 0, 0),
	})
	require.ErrorIs(t, err, ErrTooManyBabies)

	count, err := repo.CountByFamily(context.Background(), "fam-1")
	require.NoError(t, err)
	require.EqualValues(t, 5, count)
}

func TestGetBabyGatedThroughOwningFamily(t *testing.T) {
	repo := newFakeBabyRepo()
	repo.babies["b-1"] = &Baby{ID: "b-1", FamilyID: "fam-1", Name: "Emma"}
	gate := fakeGate{members: map[string]bool{"user-1|fam-1": true}}
	svc := NewService(repo, gate, family.Limits{})

	found, err := svc.GetBaby(context.Background(), "user-1", "b-1")
	require.NoError(t, err)
	require.Equal(t, "Emma", found.Name)

	_, err = svc.GetBaby(context.Background(), "stranger", "b-1")
	require.ErrorIs(t, err, ErrNoFamilyAccess)

	_, err = svc.GetBaby(context.Background(), "user-1", "ghost")
	require.ErrorIs(t, err, ErrBabyNotFound)
}

func TestFormatAge(t *testing.T) {
	require.Equal(t, "12 days", FormatAge(12))
	require.Equal(t, "2 months", FormatAge(60))
	require.Equal(t, "3 months 5 days", FormatAge(95))
	require.Equal(t, "1 years 2 months", FormatAge(365+65))
}
