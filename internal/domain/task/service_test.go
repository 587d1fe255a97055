package task

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTaskRepo struct {
	tasks     map[string]*Task
	assignees map[string][]string
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*Task{}, assignees: map[string][]string{}}
}

func (r *fakeTaskRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeTaskRepo) Create(ctx context.Context, t *Task) error {
	copied := *t
	r.tasks[t.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) AddAssignees(ctx context.Context, taskID string, userIDs []string) error {
	r.assignees[taskID] = append(r.assignees[taskID], userIDs...)
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, taskID string) (*Task, error) {
	found, ok := r.tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	copied := *found
	return &copied, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, t *Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return ErrTaskNotFound
	}
	copied := *t
	r.tasks[t.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, taskID string) error {
	delete(r.tasks, taskID)
	delete(r.assignees, taskID)
	return nil
}

func (r *fakeTaskRepo) ListByFamily(ctx context.Context, familyID string, page Page) ([]Task, int64, error) {
	var result []Task
	for _, t := range r.tasks {
		if t.FamilyID == familyID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *fakeTaskRepo) ListAssignedTo(ctx context.Context, userID string, page Page) ([]Task, int64, error) {
	var result []Task
	for taskID, userIDs := range r.assignees {
		for _, assignee := range userIDs {
			if assignee == userID {
				result = append(result, *r.tasks[taskID])
			}
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeTaskRepo) AssigneesByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	result := map[string][]string{}
	for _, id := range taskIDs {
		result[id] = r.assignees[id]
	}
	return result, nil
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
		creators: map[string]bool{"creator|fam-1": true},
	}
}

func TestCreateTask(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"granny", "granny"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Task.Status)
	require.Equal(t, PriorityMedium, created.Task.Priority)
	require.Equal(t, []string{"granny"}, created.Assignees, "duplicate assignees collapse")
	require.Equal(t, "parent", created.Task.AssignedBy)
}

func TestCreateTaskRejectsOutsideAssignee(t *testing.T) {
	svc := NewService(newFakeTaskRepo(), memberGate())

	_, err := svc.Create(context.Background(), "parent", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"stranger"},
	})
	require.ErrorIs(t, err, ErrAssigneeNotMember)
}

func TestCreateTaskRequiresMembership(t *testing.T) {
	svc := NewService(newFakeTaskRepo(), memberGate())

	_, err := svc.Create(context.Background(), "stranger", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"parent"},
	})
	require.ErrorIs(t, err, ErrNoFamilyAccess)
}

func TestCompleteTask(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"granny"},
	})
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), "granny", created.Task.ID, "done before bedtime")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.NotNil(t, completed.CompletedBy)
	require.Equal(t, "granny", *completed.CompletedBy)
	require.Equal(t, "done before bedtime", completed.CompletionNotes)
}

func TestDeleteTaskPermissions(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"granny"},
	})
	require.NoError(t, err)

	// Another plain member may not delete.
	err = svc.Delete(context.Background(), "granny", created.Task.ID)
	require.ErrorIs(t, err, ErrDeleteNotAllowed)

	// The family creator may, even without being the assigner.
	err = svc.Delete(context.Background(), "creator", created.Task.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), created.Task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTaskByAssigner(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, memberGate())

	created, err := svc.Create(context.Background(), "parent", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"granny"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "parent", created.Task.ID))
}

func TestMyTasks(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, memberGate())

	_, err := svc.Create(context.Background(), "parent", CreateInput{
		FamilyID:    "fam-1",
		Title:       "Evening bath",
		Category:    CategoryBath,
		AssigneeIDs: []string{"granny"},
	})
	require.NoError(t, err)

	mine, total, err := svc.MyTasks(context.Background(), "granny", Page{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	require.Equal(t, []string{"granny"}, mine[0].Assignees)

	none, total, err := svc.MyTasks(context.Background(), "parent", Page{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, none)
}
