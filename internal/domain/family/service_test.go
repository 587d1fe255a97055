package family

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeRepo struct {
	families map[string]*Family
	members  map[string]*Member // keyed by member id
	codes    map[string]string  // code -> family id
	babies   map[string]int64   // family id -> baby count
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		families: make(map[string]*Family),
		members:  make(map[string]*Member),
		codes:    make(map[string]string),
		babies:   make(map[string]int64),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) LockFamily(ctx context.Context, familyID string) error {
	if _, ok := r.families[familyID]; !ok {
		return ErrFamilyNotFound
	}
	return nil
}

func (r *fakeRepo) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	fam, ok := r.families[familyID]
	if !ok {
		return nil, ErrFamilyNotFound
	}
	copied := *fam
	return &copied, nil
}

func (r *fakeRepo) GetFamilyByCode(ctx context.Context, code string) (*Family, error) {
	id, ok := r.codes[code]
	if !ok {
		return nil, ErrInviteCodeNotFound
	}
	return r.GetFamily(ctx, id)
}

func (r *fakeRepo) CreateFamily(ctx context.Context, fam *Family) error {
	if _, ok := r.codes[fam.InviteCode]; ok {
		return ErrDuplicateKey
	}
	copied := *fam
	r.families[fam.ID] = &copied
	r.codes[fam.InviteCode] = fam.ID
	return nil
}

func (r *fakeRepo) UpdateFamily(ctx context.Context, fam *Family) error {
	if _, ok := r.families[fam.ID]; !ok {
		return ErrFamilyNotFound
	}
	copied := *fam
	r.families[fam.ID] = &copied
	return nil
}

func (r *fakeRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	_, ok := r.codes[code]
	return ok, nil
}

func (r *fakeRepo) AddMember(ctx context.Context, member *Member) error {
	for _, existing := range r.members {
		if existing.UserID == member.UserID && existing.FamilyID == member.FamilyID {
			return ErrDuplicateKey
		}
		if member.Role == RoleCreator && existing.UserID == member.UserID && existing.Role == RoleCreator {
			return ErrDuplicateKey
		}
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeRepo) GetMember(ctx context.Context, userID, familyID string) (*Member, error) {
	for _, member := range r.members {
		if member.UserID == userID && member.FamilyID == familyID {
			copied := *member
			return &copied, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *fakeRepo) HasMembership(ctx context.Context, userID, familyID string) (bool, error) {
	_, err := r.GetMember(ctx, userID, familyID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeRepo) HasActiveMembership(ctx context.Context, userID, familyID string) (bool, error) {
	member, err := r.GetMember(ctx, userID, familyID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Active, nil
}

func (r *fakeRepo) HasCreatorRole(ctx context.Context, userID string) (bool, error) {
	for _, member := range r.members {
		if member.UserID == userID && member.Role == RoleCreator {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) SetMemberActive(ctx context.Context, memberID string, active bool) error {
	member, ok := r.members[memberID]
	if !ok {
		return ErrMemberNotFound
	}
	member.Active = active
	return nil
}

func (r *fakeRepo) ListMembers(ctx context.Context, familyID string) ([]Member, error) {
	var result []Member
	for _, member := range r.members {
		if member.FamilyID == familyID {
			result = append(result, *member)
		}
	}
	return result, nil
}

func (r *fakeRepo) ListFamiliesByUser(ctx context.Context, userID string) ([]Family, error) {
	var result []Family
	for _, member := range r.members {
		if member.UserID == userID && member.Active {
			if fam, ok := r.families[member.FamilyID]; ok {
				result = append(result, *fam)
			}
		}
	}
	return result, nil
}

func (r *fakeRepo) CountActiveMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	for _, member := range r.members {
		if member.FamilyID == familyID && member.Active {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CountBabies(ctx context.Context, familyID string) (int64, error) {
	return r.babies[familyID], nil
}

func (r *fakeRepo) seedFamily(id, code string) *Family {
	fam := &Family{ID: id, Name: "Fam", InviteCode: code}
	r.families[id] = fam
	r.codes[code] = id
	return fam
}

func (r *fakeRepo) seedMember(id, userID, familyID, role string, active bool) *Member {
	member := &Member{ID: id, UserID: userID, FamilyID: familyID, Role: role, Active: active}
	r.members[id] = member
	return member
}

func newTestService(repo Repository) *Service {
	return NewService(repo, nil, Limits{})
}

func TestCreateFamilySuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	result, err := svc.CreateFamily(context.Background(), "user-1", CreateInput{Name: "  Smiths  ", Description: "our family"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Name != "Smiths" {
		t.Fatalf("expected name trimmed, got %q", result.Name)
	}
	if len(result.InviteCode) != 8 {
		t.Fatalf("expected 8-character invite code, got %q", result.InviteCode)
	}

	member, err := repo.GetMember(context.Background(), "user-1", result.ID)
	if err != nil {
		t.Fatalf("expected creator member, got %v", err)
	}
	if member.Role != RoleCreator || !member.Active {
		t.Fatalf("expected active creator, got %+v", member)
	}
}

func TestCreateFamilyNameValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.CreateFamily(context.Background(), "user-1", CreateInput{Name: "A"}); err == nil {
		t.Fatalf("expected error for 1-character name")
	}
}

func TestCreateFamilyTwiceFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.CreateFamily(context.Background(), "user-1", CreateInput{Name: "Smiths"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.CreateFamily(context.Background(), "user-1", CreateInput{Name: "Another"})
	if !errors.Is(err, ErrAlreadyCreator) {
		t.Fatalf("expected ErrAlreadyCreator, got %v", err)
	}
	if len(repo.families) != 1 {
		t.Fatalf("expected first family untouched, got %d families", len(repo.families))
	}
	if repo.families[first.ID].Name != "Smiths" {
		t.Fatalf("expected first family unchanged")
	}
}

func TestCreateFamilyCodesUnique(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		result, err := svc.CreateFamily(context.Background(), fmt.Sprintf("user-%d", i), CreateInput{Name: "Fam"})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[result.InviteCode] {
			t.Fatalf("duplicate invite code %q", result.InviteCode)
		}
		seen[result.InviteCode] = true
	}
}

func TestJoinFamilySuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "creator", "fam-1", RoleCreator, true)
	svc := newTestService(repo)

	result, err := svc.JoinFamily(context.Background(), "user-2", "abcdefgh", "Mum")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID != "fam-1" {
		t.Fatalf("expected fam-1, got %s", result.ID)
	}

	member, err := repo.GetMember(context.Background(), "user-2", "fam-1")
	if err != nil {
		t.Fatalf("expected member, got %v", err)
	}
	if member.Role != RoleParent || !member.Active {
		t.Fatalf("expected active parent, got %+v", member)
	}

	members, _ := svc.MembersOf(context.Background(), "fam-1")
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestJoinFamilyInvalidCode(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.JoinFamily(context.Background(), "user-1", "NOPE1234", "")
	if !errors.Is(err, ErrInviteCodeNotFound) {
		t.Fatalf("expected ErrInviteCodeNotFound, got %v", err)
	}
}

func TestJoinFamilyAlreadyMember(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "user-1", "fam-1", RoleParent, true)
	svc := newTestService(repo)

	_, err := svc.JoinFamily(context.Background(), "user-1", "ABCDEFGH", "")
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestJoinFamilyDeactivatedMemberNotReactivated(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "user-1", "fam-1", RoleParent, false)
	svc := newTestService(repo)

	_, err := svc.JoinFamily(context.Background(), "user-1", "ABCDEFGH", "")
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	member, _ := repo.GetMember(context.Background(), "user-1", "fam-1")
	if member.Active {
		t.Fatalf("deactivated member must not be reactivated by a rejoin")
	}
}

func TestJoinFamilyFull(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-0", "creator", "fam-1", RoleCreator, true)
	for i := 1; i < 10; i++ {
		repo.seedMember(fmt.Sprintf("m-%d", i), fmt.Sprintf("user-%d", i), "fam-1", RoleParent, true)
	}
	svc := newTestService(repo)

	_, err := svc.JoinFamily(context.Background(), "user-11", "ABCDEFGH", "")
	if !errors.Is(err, ErrFamilyFull) {
		t.Fatalf("expected ErrFamilyFull, got %v", err)
	}

	count, _ := repo.CountActiveMembers(context.Background(), "fam-1")
	if count != 10 {
		t.Fatalf("expected member count unchanged at 10, got %d", count)
	}
}

func TestJoinFamilyInactiveSlotsDoNotFreeCapacity(t *testing.T) {
	// A deactivated member keeps the (user, family) row, but capacity counts
	// active members only, so the seat does open up for someone new.
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-0", "creator", "fam-1", RoleCreator, true)
	for i := 1; i < 10; i++ {
		repo.seedMember(fmt.Sprintf("m-%d", i), fmt.Sprintf("user-%d", i), "fam-1", RoleParent, i != 5)
	}
	svc := newTestService(repo)

	if _, err := svc.JoinFamily(context.Background(), "user-new", "ABCDEFGH", ""); err != nil {
		t.Fatalf("expected join to succeed with a deactivated seat, got %v", err)
	}
}

func TestAuthorizeFollowsActiveFlag(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "creator", "fam-1", RoleCreator, true)
	member := repo.seedMember("m-2", "user-1", "fam-1", RoleParent, true)
	svc := newTestService(repo)

	allowed, err := svc.Authorize(context.Background(), "user-1", "fam-1")
	if err != nil || !allowed {
		t.Fatalf("expected allow, got %v %v", allowed, err)
	}

	if err := svc.DeactivateMember(context.Background(), "creator", "fam-1", "user-1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.members[member.ID].Active {
		t.Fatalf("expected member deactivated")
	}

	allowed, err = svc.Authorize(context.Background(), "user-1", "fam-1")
	if err != nil || allowed {
		t.Fatalf("expected deny after deactivation, got %v %v", allowed, err)
	}
}

func TestAuthorizeUnknownUser(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	svc := newTestService(repo)

	allowed, err := svc.Authorize(context.Background(), "stranger", "fam-1")
	if err != nil || allowed {
		t.Fatalf("expected deny for non-member, got %v %v", allowed, err)
	}
}

func TestIsCreator(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "creator", "fam-1", RoleCreator, true)
	repo.seedMember("m-2", "user-1", "fam-1", RoleParent, true)
	svc := newTestService(repo)

	isCreator, err := svc.IsCreator(context.Background(), "creator", "fam-1")
	if err != nil || !isCreator {
		t.Fatalf("expected creator, got %v %v", isCreator, err)
	}

	isCreator, err = svc.IsCreator(context.Background(), "user-1", "fam-1")
	if err != nil || isCreator {
		t.Fatalf("expected parent not to be creator, got %v %v", isCreator, err)
	}

	isCreator, err = svc.IsCreator(context.Background(), "stranger", "fam-1")
	if err != nil || isCreator {
		t.Fatalf("expected non-member not to be creator, got %v %v", isCreator, err)
	}
}

func TestHasRole(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "creator", "fam-1", RoleCreator, true)
	repo.seedMember("m-2", "user-1", "fam-1", RoleGrandparent, false)
	svc := newTestService(repo)

	has, err := svc.HasRole(context.Background(), "creator", "fam-1", RoleCreator)
	if err != nil || !has {
		t.Fatalf("expected role match, got %v %v", has, err)
	}

	has, err = svc.HasRole(context.Background(), "creator", "fam-1", RoleParent)
	if err != nil || has {
		t.Fatalf("expected role mismatch, got %v %v", has, err)
	}

	// The role is read off the ledger row even when the member is deactivated.
	has, err = svc.HasRole(context.Background(), "user-1", "fam-1", RoleGrandparent)
	if err != nil || !has {
		t.Fatalf("expected role on deactivated member, got %v %v", has, err)
	}

	has, err = svc.HasRole(context.Background(), "stranger", "fam-1", RoleParent)
	if err != nil || has {
		t.Fatalf("expected no role for non-member, got %v %v", has, err)
	}
}

func TestDeactivateMemberGuards(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "creator", "fam-1", RoleCreator, true)
	repo.seedMember("m-2", "user-1", "fam-1", RoleParent, true)
	svc := newTestService(repo)

	err := svc.DeactivateMember(context.Background(), "user-1", "fam-1", "creator")
	if !errors.Is(err, ErrNotCreator) {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}

	err = svc.DeactivateMember(context.Background(), "creator", "fam-1", "creator")
	if !errors.Is(err, ErrCannotRemoveCreator) {
		t.Fatalf("expected ErrCannotRemoveCreator, got %v", err)
	}

	err = svc.DeactivateMember(context.Background(), "creator", "fam-1", "ghost")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestGetFamilyRequiresMembership(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "ABCDEFGH")
	repo.seedMember("m-1", "creator", "fam-1", RoleCreator, true)
	repo.babies["fam-1"] = 2
	svc := newTestService(repo)

	detail, err := svc.GetFamily(context.Background(), "creator", "fam-1")
	if err != nil {
		t.Fatalf("expected detail, got %v", err)
	}
	if detail.MemberCount != 1 || detail.BabyCount != 2 {
		t.Fatalf("expected counts 1/2, got %d/%d", detail.MemberCount, detail.BabyCount)
	}

	_, err = svc.GetFamily(context.Background(), "stranger", "fam-1")
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestFamiliesOfSkipsInactiveMemberships(t *testing.T) {
	repo := newFakeRepo()
	repo.seedFamily("fam-1", "AAAABBBB")
	repo.seedFamily("fam-2", "CCCCDDDD")
	repo.seedMember("m-1", "user-1", "fam-1", RoleParent, true)
	repo.seedMember("m-2", "user-1", "fam-2", RoleParent, false)
	svc := newTestService(repo)

	families, err := svc.FamiliesOf(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected families, got %v", err)
	}
	if len(families) != 1 || families[0].ID != "fam-1" {
		t.Fatalf("expected only fam-1, got %+v", families)
	}
}
