// Package projectstore is the single client-side gateway for project reads
// and writes: it owns the authoritative in-memory project list, applies local
// mutations only after remote confirmation, enforces a time-boxed cache for
// list loads, and retries timed-out loads a bounded number of times.
package projectstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"fieldbook/internal/domain"
)

// Result is the uniform return shape of every manager method. Methods never
// return Go errors; callers branch on Success. A successful list load served
// from cache carries nil Data to distinguish it from a fresh load.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(data any) Result     { return Result{Success: true, Data: data} }
func fail(msg string) Result { return Result{Success: false, Error: msg} }

// State is the snapshot exposed to the UI. The freshness markers
// (lastLoadedUserID, lastLoadTime) stay internal to the manager.
type State struct {
	Projects       []domain.Project     `json:"projects"`
	CurrentProject *domain.Project      `json:"current_project"`
	Loading        bool                 `json:"loading"`
	Error          string               `json:"error,omitempty"`
	Stats          *domain.ProjectStats `json:"stats,omitempty"`
}

// Remote is the service surface the manager mediates. In production it is
// the gorm-backed project service; tests substitute fakes.
type Remote interface {
	ListByOwner(ctx context.Context, userID string) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p domain.Project) (*domain.Project, error)
	Update(ctx context.Context, id string, upd domain.ProjectUpdate) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	RequestSupervision(ctx context.Context, id, supervisorID string) (*domain.Project, error)
	RemoveSupervision(ctx context.Context, id string) (*domain.Project, error)
	StatsByOwner(ctx context.Context, userID string) (*domain.ProjectStats, error)
}

// Notifier receives user-facing transient notifications (toasts).
type Notifier interface {
	Push(kind, message string)
}

type Options struct {
	CacheWindow  time.Duration // list loads within this window are served from cache
	LoadTimeout  time.Duration // per-attempt budget for list loads
	LoadRetries  int           // extra attempts after a timed-out list load
	RetryBackoff time.Duration // pause between retried list loads
	GetTimeout   time.Duration // budget for single-project loads, no retry
	Now          func() time.Time
	Notifier     Notifier
}

const (
	defaultCacheWindow  = 30 * time.Second
	defaultLoadTimeout  = 5 * time.Second
	defaultLoadRetries  = 2
	defaultRetryBackoff = 250 * time.Millisecond
	defaultGetTimeout   = 10 * time.Second
)

const genericErr = "something went wrong, please try again"

// Manager is safe for concurrent use. It is a constructed, injected object
// with an explicit lifecycle (Reset), not package-level state.
type Manager struct {
	remote Remote
	opts   Options

	mu               sync.Mutex
	state            State
	lastLoadedUserID string
	lastLoadTime     time.Time
	loadSeq          uint64
	subs             []func(State)
}

func NewManager(remote Remote, opts Options) *Manager {
	if opts.CacheWindow <= 0 {
		opts.CacheWindow = defaultCacheWindow
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.LoadRetries <= 0 {
		opts.LoadRetries = defaultLoadRetries
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	if opts.GetTimeout <= 0 {
		opts.GetTimeout = defaultGetTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{remote: remote, opts: opts}
}

// Subscribe registers a callback invoked with a state snapshot after every
// change. No unsubscribe: subscribers live as long as the manager.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	s := m.state
	s.Projects = append([]domain.Project(nil), m.state.Projects...)
	if m.state.CurrentProject != nil {
		cp := *m.state.CurrentProject
		s.CurrentProject = &cp
	}
	return s
}

func (m *Manager) publishLocked() {
	snap := m.snapshotLocked()
	for _, fn := range m.subs {
		fn(snap)
	}
}

// LoadUserProjects fetches the full project list for userID. Within the
// cache window a repeat load for the same user is answered locally with
// Data == nil. Fresh loads run under a bounded timeout-and-retry loop; a
// completion that has been superseded by a newer load is discarded.
func (m *Manager) LoadUserProjects(ctx context.Context, userID string, force bool) Result {
	m.mu.Lock()
	if !force && userID == m.lastLoadedUserID &&
		m.opts.Now().Sub(m.lastLoadTime) < m.opts.CacheWindow {
		m.mu.Unlock()
		return ok(nil) // cache hit
	}
	m.loadSeq++
	seq := m.loadSeq
	m.state.Loading = true
	m.publishLocked()
	m.mu.Unlock()

	var (
		projects []domain.Project
		err      error
	)
	for attempt := 0; attempt <= m.opts.LoadRetries; attempt++ {
		if attempt > 0 && m.opts.RetryBackoff > 0 {
			time.Sleep(m.opts.RetryBackoff)
		}
		attemptCtx, cancel := context.WithTimeout(ctx, m.opts.LoadTimeout)
		projects, err = m.remote.ListByOwner(attemptCtx, userID)
		cancel()
		if err == nil || !errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if seq != m.loadSeq {
		// A newer load has been issued; only the most recently requested
		// load may win.
		return fail("superseded by a newer load")
	}

	m.state.Loading = false
	switch {
	case err == nil:
		m.state.Projects = projects
		m.state.Error = ""
		m.lastLoadedUserID = userID
		m.lastLoadTime = m.opts.Now()
		m.publishLocked()
		return ok(projects)
	case errors.Is(err, context.DeadlineExceeded):
		if m.opts.Notifier != nil {
			m.opts.Notifier.Push("error", "Loading projects timed out, please retry")
		}
		m.publishLocked()
		return fail("timed out loading projects")
	default:
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
}

// LoadProject fetches a single project. One attempt, longer budget, no retry.
func (m *Manager) LoadProject(ctx context.Context, id string) Result {
	m.setLoading(true)

	attemptCtx, cancel := context.WithTimeout(ctx, m.opts.GetTimeout)
	p, err := m.remote.GetByID(attemptCtx, id)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if err != nil {
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
	m.state.CurrentProject = p
	m.syncProjectLocked(*p)
	m.state.Error = ""
	m.publishLocked()
	return ok(p)
}

// CreateProject is confirm-then-apply: the new project is prepended to the
// local list only after the remote store accepts it.
func (m *Manager) CreateProject(ctx context.Context, p domain.Project) Result {
	m.setLoading(true)

	created, err := m.remote.Create(ctx, p)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if err != nil {
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
	m.state.Projects = append([]domain.Project{*created}, m.state.Projects...)
	m.state.Error = ""
	m.publishLocked()
	return ok(created)
}

// UpdateProject map-replaces the matching entry (and CurrentProject) after
// remote confirmation. On failure prior state is left untouched apart from
// the error field.
func (m *Manager) UpdateProject(ctx context.Context, id string, upd domain.ProjectUpdate) Result {
	m.setLoading(true)

	updated, err := m.remote.Update(ctx, id, upd)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if err != nil {
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
	m.syncProjectLocked(*updated)
	if m.state.CurrentProject != nil && m.state.CurrentProject.ID == id {
		cp := *updated
		m.state.CurrentProject = &cp
	}
	m.state.Error = ""
	m.publishLocked()
	return ok(updated)
}

// UpdateProjectPhase constrains the update payload to the phase field.
func (m *Manager) UpdateProjectPhase(ctx context.Context, id string, phase domain.ProjectPhase) Result {
	if !phase.Valid() {
		return fail("invalid project phase: " + string(phase))
	}
	return m.UpdateProject(ctx, id, domain.ProjectUpdate{Phase: &phase})
}

// UpdateProjectStatus constrains the update payload to the status field.
func (m *Manager) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) Result {
	if !status.Valid() {
		return fail("invalid project status: " + string(status))
	}
	return m.UpdateProject(ctx, id, domain.ProjectUpdate{Status: &status})
}

// DeleteProject removes the entry locally once the remote hard delete
// succeeds; CurrentProject is cleared if it matched.
func (m *Manager) DeleteProject(ctx context.Context, id string) Result {
	m.setLoading(true)

	err := m.remote.Delete(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if err != nil {
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
	kept := m.state.Projects[:0:0]
	for _, p := range m.state.Projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.state.Projects = kept
	if m.state.CurrentProject != nil && m.state.CurrentProject.ID == id {
		m.state.CurrentProject = nil
	}
	m.state.Error = ""
	m.publishLocked()
	return ok(nil)
}

// RequestSupervision links a supervisor to the project via a dedicated
// remote call, then applies the confirmed row locally.
func (m *Manager) RequestSupervision(ctx context.Context, id, supervisorID string) Result {
	return m.applySupervision(func(ctx context.Context) (*domain.Project, error) {
		return m.remote.RequestSupervision(ctx, id, supervisorID)
	}, ctx, id)
}

// RemoveSupervision clears the supervisor linkage.
func (m *Manager) RemoveSupervision(ctx context.Context, id string) Result {
	return m.applySupervision(func(ctx context.Context) (*domain.Project, error) {
		return m.remote.RemoveSupervision(ctx, id)
	}, ctx, id)
}

func (m *Manager) applySupervision(call func(context.Context) (*domain.Project, error), ctx context.Context, id string) Result {
	m.setLoading(true)

	updated, err := call(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if err != nil {
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
	m.syncProjectLocked(*updated)
	if m.state.CurrentProject != nil && m.state.CurrentProject.ID == id {
		cp := *updated
		m.state.CurrentProject = &cp
	}
	m.state.Error = ""
	m.publishLocked()
	return ok(updated)
}

// LoadProjectStats always refetches; stats have no cache window.
func (m *Manager) LoadProjectStats(ctx context.Context, userID string) Result {
	stats, err := m.remote.StatsByOwner(ctx, userID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state.Error = errMessage(err)
		m.publishLocked()
		return fail(m.state.Error)
	}
	m.state.Stats = stats
	m.publishLocked()
	return ok(stats)
}

// InvalidateCache clears the freshness markers so the next list load goes to
// the remote store. Used on explicit user-initiated refresh.
func (m *Manager) InvalidateCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLoadedUserID = ""
	m.lastLoadTime = time.Time{}
}

// Reset clears the whole state. Used on sign-out.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	m.lastLoadedUserID = ""
	m.lastLoadTime = time.Time{}
	m.publishLocked()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = v
	m.publishLocked()
}

// syncProjectLocked map-replaces the matching list entry, if present.
func (m *Manager) syncProjectLocked(p domain.Project) {
	for i := range m.state.Projects {
		if m.state.Projects[i].ID == p.ID {
			m.state.Projects[i] = p
			return
		}
	}
}

func errMessage(err error) string {
	if err == nil || err.Error() == "" {
		return genericErr
	}
	return err.Error()
}
