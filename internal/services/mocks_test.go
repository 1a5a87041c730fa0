package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"portfolio/internal/githubapi"
	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// ---------- users ----------

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) add(email string, passwordHash *string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := &models.User{ID: m.nextID, Email: email, PasswordHash: passwordHash, Role: models.RoleAdmin, Name: "Owner"}
	m.users[email] = u
	return u
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) IssueResetToken(_ context.Context, userID int64, tokenHash string, expiry, replaceBefore time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != userID {
			continue
		}
		if u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(replaceBefore) {
			return false, nil
		}
		h, e := tokenHash, expiry
		u.ResetTokenHash, u.ResetTokenExpiry = &h, &e
		return true, nil
	}
	return false, nil
}

func (m *mockUserRepo) ConsumeResetToken(_ context.Context, email, tokenHash, passwordHash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok || u.ResetTokenHash == nil || *u.ResetTokenHash != tokenHash ||
		u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(now) {
		return repository.ErrNotFound
	}
	u.PasswordHash = &passwordHash
	u.ResetTokenHash, u.ResetTokenExpiry = nil, nil
	return nil
}

func (m *mockUserRepo) UpsertAdmin(_ context.Context, email, name, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	u, ok := m.users[email]
	m.mu.Unlock()
	if !ok {
		u = m.add(email, nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Name, u.PasswordHash, u.Role = name, &passwordHash, models.RoleAdmin
	return u, nil
}

// ---------- mail ----------

type sentReset struct {
	to, link string
}

type fakeResetMailer struct {
	mu   sync.Mutex
	sent []sentReset
	err  error
}

func (f *fakeResetMailer) SendPasswordReset(_ context.Context, to, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReset{to: to, link: link})
	return f.err
}

type fakeMailSender struct {
	mu   sync.Mutex
	sent []Mail
	err  error
}

func (f *fakeMailSender) Send(m Mail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

type fakeQueue struct{ queued []Mail }

func (q *fakeQueue) Enqueue(m Mail) bool {
	q.queued = append(q.queued, m)
	return true
}

// ---------- projects ----------

type mockProjectRepo struct {
	byGithub map[int64]*models.Project
	nextID   int64
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{byGithub: make(map[int64]*models.Project)}
}

func (m *mockProjectRepo) ExistsByGithubID(_ context.Context, id int64) (bool, error) {
	_, ok := m.byGithub[id]
	return ok, nil
}

func (m *mockProjectRepo) Insert(_ context.Context, p *models.Project) (bool, error) {
	if _, ok := m.byGithub[p.GithubID]; ok {
		return false, nil
	}
	m.nextID++
	p.ID = m.nextID
	m.byGithub[p.GithubID] = p
	return true, nil
}

func (m *mockProjectRepo) sorted() []*models.Project {
	out := make([]*models.Project, 0, len(m.byGithub))
	for _, p := range m.byGithub {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockProjectRepo) List(_ context.Context, onlyApproved bool) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range m.sorted() {
		if !onlyApproved || p.IsApproved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectRepo) ListWithoutImage(_ context.Context, fallback string) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range m.sorted() {
		if p.Image == "" || p.Image == fallback {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectRepo) byID(id int64) *models.Project {
	for _, p := range m.byGithub {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	if p := m.byID(id); p != nil {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProjectRepo) Update(_ context.Context, id int64, req *models.UpdateProjectRequest) (*models.Project, error) {
	p := m.byID(id)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	if req.IsApproved != nil {
		p.IsApproved = *req.IsApproved
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	return p, nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id int64) error {
	p := m.byID(id)
	if p == nil {
		return repository.ErrNotFound
	}
	delete(m.byGithub, p.GithubID)
	return nil
}

func (m *mockProjectRepo) SetImage(_ context.Context, id int64, image string) error {
	if p := m.byID(id); p != nil {
		p.Image = image
	}
	return nil
}

func (m *mockProjectRepo) SetLanguages(_ context.Context, id int64, languages []string, pct map[string]int) error {
	if p := m.byID(id); p != nil {
		p.Languages, p.LanguagePercentages = languages, pct
	}
	return nil
}

// ---------- github ----------

type fakeGitHub struct {
	repos     []githubapi.Repository
	listErr   error
	languages map[string]map[string]int64
	langErr   map[string]error
	readmes   map[string]string
	branches  map[string]string
	calls     int
}

func (f *fakeGitHub) ListUserRepos(_ context.Context, _ string) ([]githubapi.Repository, error) {
	f.calls++
	return f.repos, f.listErr
}

func (f *fakeGitHub) GetRepository(_ context.Context, owner, repo string) (*githubapi.Repository, error) {
	f.calls++
	b, ok := f.branches[repo]
	if !ok {
		return nil, githubapi.ErrNotFound
	}
	return &githubapi.Repository{Name: repo, DefaultBranch: b, Owner: githubapi.Owner{Login: owner}}, nil
}

func (f *fakeGitHub) GetLanguages(_ context.Context, _, _, repo string) (map[string]int64, error) {
	f.calls++
	if err := f.langErr[repo]; err != nil {
		return nil, err
	}
	return f.languages[repo], nil
}

func (f *fakeGitHub) GetReadme(_ context.Context, _, repo string) (string, error) {
	f.calls++
	r, ok := f.readmes[repo]
	if !ok {
		return "", githubapi.ErrNotFound
	}
	return r, nil
}

func (f *fakeGitHub) RawBaseURL() string { return "https://raw.githubusercontent.com" }

var errBoom = errors.New("boom")
