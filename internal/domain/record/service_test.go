package record

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRecordRepo struct {
	records      map[string]*GrowthRecord
	babyFamilies map[string]string
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{
		records:      map[string]*GrowthRecord{},
		babyFamilies: map[string]string{"baby-1": "fam-1"},
	}
}

func (r *fakeRecordRepo) Create(ctx context.Context, rec *GrowthRecord) error {
	copied := *rec
	r.records[rec.ID] = &copied
	return nil
}

func (r *fakeRecordRepo) GetByID(ctx context.Context, recordID string) (*GrowthRecord, error) {
	found, ok := r.records[recordID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	copied := *found
	return &copied, nil
}

func (r *fakeRecordRepo) Update(ctx context.Context, rec *GrowthRecord) error {
	if _, ok := r.records[rec.ID]; !ok {
		return ErrRecordNotFound
	}
	copied := *rec
	r.records[rec.ID] = &copied
	return nil
}

func (r *fakeRecordRepo) Delete(ctx context.Context, recordID string) error {
	delete(r.records, recordID)
	return nil
}

func (r *fakeRecordRepo) ListByBaby(ctx context.Context, babyID string, page Page) ([]GrowthRecord, int64, error) {
	var result []GrowthRecord
	for _, rec := range r.records {
		if rec.BabyID == babyID {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *fakeRecordRepo) ListByType(ctx context.Context, babyID, recordType string, page Page) ([]GrowthRecord, int64, error) {
	var result []GrowthRecord
	for _, rec := range r.records {
		if rec.BabyID == babyID && rec.Type == recordType {
			result = append(result, *rec)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeRecordRepo) GetBabyFamily(ctx context.Context, babyID string) (string, error) {
	familyID, ok := r.babyFamilies[babyID]
	if !ok {
		return "", ErrBabyNotFound
	}
	return familyID, nil
}

type fakeGate struct {
	active   map[string]bool // userID|familyID
	creators map[string]bool
}

func (g fakeGate) Authorize(ctx context.Context, userID, familyID string) (bool, error) {
	return g.active[userID+"|"+familyID], nil
}

func (g fakeGate) IsCreator(ctx context.Context, userID, familyID string) (bool, error) {
	return g.creators[userID+"|"+familyID], nil
}

func memberGate() fakeGate {
	return fakeGate{
		active: map[string]bool{
			"creator|fam-1": true,
			"parent|fam-1":  true,
			"granny|fam-1":  true,
		},
		creators: map[string]bool{
			"creator|fam-1": true,
		},
	}
}

func TestCreateRecord(t *testing.T) {
	repo := newFakeRecordRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		BabyID:  "baby-1",
		Type:    TypeMilestone,
		Title:   "First word",
		Content: "Said mama this morning",
		Tags:    []string{"speech"},
		Mood:    "happy",
	})
	require.NoError(t, err)
	require.Equal(t, "parent", created.CreatedBy)
	require.Equal(t, TypeMilestone, created.Type)
}

func TestCreateRecordRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeRecordRepo(), memberGate())

	_, err := svc.Create(context.Background(), "parent", CreateInput{
		BabyID: "baby-1",
		Type:   "hologram",
		Title:  "First word",
	})
	require.Error(t, err)
}

func TestCreateRecordRequiresFamilyAccess(t *testing.T) {
	svc := NewService(newFakeRecordRepo(), memberGate())

	_, err := svc.Create(context.Background(), "stranger", CreateInput{
		BabyID: "baby-1",
		Type:   TypeDiary,
		Title:  "Nap log",
	})
	require.ErrorIs(t, err, ErrNoFamilyAccess)
}

func TestCreateRecordUnknownBaby(t *testing.T) {
	svc := NewService(newFakeRecordRepo(), memberGate())

	_, err := svc.Create(context.Background(), "parent", CreateInput{
		BabyID: "baby-missing",
		Type:   TypeDiary,
		Title:  "Nap log",
	})
	require.ErrorIs(t, err, ErrBabyNotFound)
}

func TestListByType(t *testing.T) {
	repo := newFakeRecordRepo()
	svc := NewService(repo, memberGate())

	for _, recordType := range []string{TypeDiary, TypePhoto, TypeDiary} {
		_, err := svc.Create(context.Background(), "parent", CreateInput{
			BabyID: "baby-1",
			Type:   recordType,
			Title:  "entry",
		})
		require.NoError(t, err)
	}

	diaries, total, err := svc.ListByType(context.Background(), "granny", "baby-1", TypeDiary, Page{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, diaries, 2)

	all, total, err := svc.ListByBaby(context.Background(), "granny", "baby-1", Page{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, all, 3)
}

func TestDeleteRecordRequiresFamilyAccess(t *testing.T) {
	repo := newFakeRecordRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		BabyID: "baby-1",
		Type:   TypeDiary,
		Title:  "Nap log",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "stranger", created.ID)
	require.ErrorIs(t, err, ErrNoFamilyAccess)

	require.NoError(t, svc.Delete(context.Background(), "parent", created.ID))
}

func TestDeleteRecordPermissions(t *testing.T) {
	repo := newFakeRecordRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		BabyID: "baby-1",
		Type:   TypePhoto,
		Title:  "Bath time",
	})
	require.NoError(t, err)

	// An ordinary member who is not the author cannot delete.
	err = svc.Delete(context.Background(), "granny", created.ID)
	require.ErrorIs(t, err, ErrDeleteNotAllowed)

	_, err = repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	// The family creator can.
	require.NoError(t, svc.Delete(context.Background(), "creator", created.ID))

	_, err = repo.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}
