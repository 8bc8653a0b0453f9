package projectstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fieldbook/internal/domain"
)

type fakeRemote struct {
	mu         sync.Mutex
	listCalls  int
	projects   map[string][]domain.Project
	listBlock  chan struct{} // when set, ListByOwner waits for it before answering
	listErr    error
	getErr     error
	createErr  error
	updateErr  error
	deleteErr  error
	timeoutFor int // first N list calls time out
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{projects: make(map[string][]domain.Project)}
}

func (f *fakeRemote) ListByOwner(ctx context.Context, userID string) ([]domain.Project, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	block := f.listBlock
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.timeoutFor >= call {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.projects[userID], nil
}

func (f *fakeRemote) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, list := range f.projects {
		for _, p := range list {
			if p.ID == id {
				cp := p
				return &cp, nil
			}
		}
	}
	return nil, errors.New("project not found")
}

func (f *fakeRemote) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "p-" + p.Title
	p.Phase = domain.PhaseSetup
	p.Status = domain.StatusActive
	f.projects[p.OwnerID] = append(f.projects[p.OwnerID], p)
	return &p, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, upd domain.ProjectUpdate) (*domain.Project, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for owner, list := range f.projects {
		for i, p := range list {
			if p.ID == id {
				if upd.Title != nil {
					p.Title = *upd.Title
				}
				if upd.Phase != nil {
					p.Phase = *upd.Phase
				}
				if upd.Status != nil {
					p.Status = *upd.Status
				}
				f.projects[owner][i] = p
				return &p, nil
			}
		}
	}
	return nil, errors.New("project not found")
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeRemote) RequestSupervision(ctx context.Context, id, supervisorID string) (*domain.Project, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SupervisorID = &supervisorID
	p.SupervisionRequested = true
	return p, nil
}

func (f *fakeRemote) RemoveSupervision(ctx context.Context, id string) (*domain.Project, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SupervisorID = nil
	p.SupervisionRequested = false
	return p, nil
}

func (f *fakeRemote) StatsByOwner(ctx context.Context, userID string) (*domain.ProjectStats, error) {
	return &domain.ProjectStats{Total: int64(len(f.projects[userID]))}, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Push(kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, kind+": "+message)
}

func newTestManager(remote Remote, now *time.Time, notifier Notifier) *Manager {
	return NewManager(remote, Options{
		CacheWindow:  30 * time.Second,
		LoadTimeout:  20 * time.Millisecond,
		LoadRetries:  2,
		RetryBackoff: -1, // no pause in tests
		GetTimeout:   20 * time.Millisecond,
		Now:          func() time.Time { return *now },
		Notifier:     notifier,
	})
}

func TestLoadServedFromCacheWithinWindow(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1", Title: "Survey A"}}
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	res := m.LoadUserProjects(context.Background(), "u1", false)
	if !res.Success || res.Data == nil {
		t.Fatalf("fresh load failed: %+v", res)
	}

	res = m.LoadUserProjects(context.Background(), "u1", false)
	if !res.Success {
		t.Fatalf("cache hit failed: %+v", res)
	}
	if res.Data != nil {
		t.Fatal("cache hit must carry nil data")
	}
	if remote.listCalls != 1 {
		t.Fatalf("expected 1 remote fetch, got %d", remote.listCalls)
	}

	// Force always fetches, regardless of freshness.
	res = m.LoadUserProjects(context.Background(), "u1", true)
	if !res.Success || res.Data == nil {
		t.Fatalf("forced load failed: %+v", res)
	}
	if remote.listCalls != 2 {
		t.Fatalf("expected 2 remote fetches, got %d", remote.listCalls)
	}
}

func TestLoadRefetchesAfterWindowExpires(t *testing.T) {
	remote := newFakeRemote()
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	m.LoadUserProjects(context.Background(), "u1", false)
	now = now.Add(31 * time.Second)
	m.LoadUserProjects(context.Background(), "u1", false)

	if remote.listCalls != 2 {
		t.Fatalf("expected refetch after window expiry, got %d calls", remote.listCalls)
	}
}

func TestLoadForDifferentUserBypassesCache(t *testing.T) {
	remote := newFakeRemote()
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	m.LoadUserProjects(context.Background(), "u1", false)
	m.LoadUserProjects(context.Background(), "u2", false)

	if remote.listCalls != 2 {
		t.Fatalf("expected 2 fetches for 2 users, got %d", remote.listCalls)
	}
}

func TestLoadRetriesTimedOutAttempts(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1"}}
	remote.timeoutFor = 2 // first two attempts hang past the load timeout
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	res := m.LoadUserProjects(context.Background(), "u1", false)
	if !res.Success {
		t.Fatalf("load should succeed on the third attempt: %+v", res)
	}
	if remote.listCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", remote.listCalls)
	}
}

func TestLoadTimeoutExhaustionRaisesToast(t *testing.T) {
	remote := newFakeRemote()
	remote.timeoutFor = 100
	now := time.Now()
	notifier := &fakeNotifier{}
	m := newTestManager(remote, &now, notifier)

	res := m.LoadUserProjects(context.Background(), "u1", false)
	if res.Success {
		t.Fatal("exhausted load must fail")
	}
	if remote.listCalls != 3 {
		t.Fatalf("expected initial attempt + 2 retries, got %d", remote.listCalls)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one timeout toast, got %v", notifier.messages)
	}

	st := m.Snapshot()
	if st.Loading {
		t.Fatal("loading must be cleared after exhaustion")
	}
}

func TestLoadRemoteErrorSetsState(t *testing.T) {
	remote := newFakeRemote()
	remote.listErr = errors.New("row level security violation")
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	res := m.LoadUserProjects(context.Background(), "u1", false)
	if res.Success || res.Error != "row level security violation" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if st := m.Snapshot(); st.Error != "row level security violation" || st.Loading {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "old", Title: "Old"}}
	remote.projects["u2"] = []domain.Project{{ID: "new", Title: "New"}}
	block := make(chan struct{})
	remote.listBlock = block
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	first := make(chan Result, 1)
	go func() { first <- m.LoadUserProjects(context.Background(), "u1", true) }()

	// Wait until the first load is in flight, then issue a newer one.
	deadline := time.Now().Add(time.Second)
	for {
		remote.mu.Lock()
		calls := remote.listCalls
		remote.mu.Unlock()
		if calls >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first load never started")
		}
		time.Sleep(time.Millisecond)
	}

	remote.mu.Lock()
	remote.listBlock = nil
	remote.mu.Unlock()
	res := m.LoadUserProjects(context.Background(), "u2", true)
	if !res.Success {
		t.Fatalf("second load failed: %+v", res)
	}

	close(block)
	if res := <-first; res.Success {
		t.Fatalf("stale load must be discarded: %+v", res)
	}

	st := m.Snapshot()
	if len(st.Projects) != 1 || st.Projects[0].ID != "new" {
		t.Fatalf("state must reflect the newest load, got %+v", st.Projects)
	}
}

func TestUpdateFailureLeavesProjectsUntouched(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1", Title: "Survey A"}}
	now := time.Now()
	m := newTestManager(remote, &now, nil)
	m.LoadUserProjects(context.Background(), "u1", false)

	remote.updateErr = errors.New("update rejected")
	title := "Renamed"
	res := m.UpdateProject(context.Background(), "p1", domain.ProjectUpdate{Title: &title})
	if res.Success {
		t.Fatal("update should fail")
	}

	st := m.Snapshot()
	if st.Error != "update rejected" {
		t.Fatalf("error not captured: %+v", st)
	}
	if len(st.Projects) != 1 || st.Projects[0].Title != "Survey A" {
		t.Fatalf("projects mutated on failure: %+v", st.Projects)
	}
}

func TestCreateUpdatePhaseDeleteScenario(t *testing.T) {
	remote := newFakeRemote()
	now := time.Now()
	m := newTestManager(remote, &now, nil)
	ctx := context.Background()

	m.LoadUserProjects(ctx, "u1", false)

	res := m.CreateProject(ctx, domain.Project{Title: "Survey A", Location: "Hobart", OwnerID: "u1"})
	if !res.Success {
		t.Fatalf("create failed: %+v", res)
	}
	created := res.Data.(*domain.Project)

	st := m.Snapshot()
	if len(st.Projects) != 1 || st.Projects[0].Title != "Survey A" {
		t.Fatalf("created project not prepended: %+v", st.Projects)
	}

	m.LoadProject(ctx, created.ID)

	res = m.UpdateProjectPhase(ctx, created.ID, domain.PhaseFieldwork)
	if !res.Success {
		t.Fatalf("phase update failed: %+v", res)
	}
	st = m.Snapshot()
	if st.Projects[0].Phase != domain.PhaseFieldwork {
		t.Fatalf("phase not applied: %+v", st.Projects[0])
	}
	if st.Projects[0].Title != "Survey A" || st.Projects[0].Location != "Hobart" {
		t.Fatalf("phase update touched other fields: %+v", st.Projects[0])
	}
	if st.CurrentProject == nil || st.CurrentProject.Phase != domain.PhaseFieldwork {
		t.Fatalf("current project out of sync: %+v", st.CurrentProject)
	}

	res = m.DeleteProject(ctx, created.ID)
	if !res.Success {
		t.Fatalf("delete failed: %+v", res)
	}
	st = m.Snapshot()
	if len(st.Projects) != 0 {
		t.Fatalf("project not removed: %+v", st.Projects)
	}
	if st.CurrentProject != nil {
		t.Fatal("current project must be cleared when it was deleted")
	}
}

func TestUpdatePhaseRejectsUnknownValue(t *testing.T) {
	remote := newFakeRemote()
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	res := m.UpdateProjectPhase(context.Background(), "p1", "demolition")
	if res.Success {
		t.Fatal("unknown phase must be rejected locally")
	}
	res = m.UpdateProjectStatus(context.Background(), "p1", "paused")
	if res.Success {
		t.Fatal("unknown status must be rejected locally")
	}
}

func TestSupervisionRoundTrip(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1", Title: "Survey A"}}
	now := time.Now()
	m := newTestManager(remote, &now, nil)
	ctx := context.Background()
	m.LoadUserProjects(ctx, "u1", false)

	res := m.RequestSupervision(ctx, "p1", "sup-9")
	if !res.Success {
		t.Fatalf("request supervision failed: %+v", res)
	}
	st := m.Snapshot()
	if st.Projects[0].SupervisorID == nil || *st.Projects[0].SupervisorID != "sup-9" {
		t.Fatalf("supervisor not linked: %+v", st.Projects[0])
	}

	res = m.RemoveSupervision(ctx, "p1")
	if !res.Success {
		t.Fatalf("remove supervision failed: %+v", res)
	}
	if st := m.Snapshot(); st.Projects[0].SupervisorID != nil {
		t.Fatalf("supervisor not cleared: %+v", st.Projects[0])
	}
}

func TestStatsAlwaysRefetch(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1"}}
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	res := m.LoadProjectStats(context.Background(), "u1")
	if !res.Success {
		t.Fatalf("stats failed: %+v", res)
	}
	if st := m.Snapshot(); st.Stats == nil || st.Stats.Total != 1 {
		t.Fatalf("stats not stored: %+v", st.Stats)
	}
}

func TestInvalidateCacheForcesRefetch(t *testing.T) {
	remote := newFakeRemote()
	now := time.Now()
	m := newTestManager(remote, &now, nil)
	ctx := context.Background()

	m.LoadUserProjects(ctx, "u1", false)
	m.InvalidateCache()
	m.LoadUserProjects(ctx, "u1", false)

	if remote.listCalls != 2 {
		t.Fatalf("invalidate must force a refetch, got %d calls", remote.listCalls)
	}
}

func TestResetClearsEverything(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1"}}
	now := time.Now()
	m := newTestManager(remote, &now, nil)
	ctx := context.Background()

	m.LoadUserProjects(ctx, "u1", false)
	m.LoadProject(ctx, "p1")
	m.Reset()

	st := m.Snapshot()
	if len(st.Projects) != 0 || st.CurrentProject != nil || st.Stats != nil || st.Error != "" {
		t.Fatalf("reset left state behind: %+v", st)
	}
	m.LoadUserProjects(ctx, "u1", false)
	if remote.listCalls != 2 {
		t.Fatal("reset must also clear the cache window")
	}
}

func TestSubscriberSeesSnapshots(t *testing.T) {
	remote := newFakeRemote()
	remote.projects["u1"] = []domain.Project{{ID: "p1"}}
	now := time.Now()
	m := newTestManager(remote, &now, nil)

	var last State
	m.Subscribe(func(s State) { last = s })

	m.LoadUserProjects(context.Background(), "u1", false)
	if len(last.Projects) != 1 || last.Loading {
		t.Fatalf("subscriber saw stale state: %+v", last)
	}
}
