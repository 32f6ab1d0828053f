package service

import (
	"context"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/pkg/jwt"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students []*model.Student
}

func (m *mockStudentRepo) find(reg string) *model.Student {
	for _, s := range m.students {
		if s.RegNumber == reg {
			return s
		}
	}
	return nil
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	if m.find(s.RegNumber) != nil {
		return gorm.ErrDuplicatedKey
	}
	s.ID = uint(len(m.students) + 1)
	s.CreatedAt = time.Now()
	m.students = append(m.students, s)
	return nil
}

func (m *mockStudentRepo) CreateIgnoreDuplicates(ctx context.Context, students []model.Student) (int64, error) {
	var n int64
	for i := range students {
		s := students[i]
		if err := m.Create(ctx, &s); err == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockStudentRepo) GetByRegNumberAndName(_ context.Context, reg, name string) (*model.Student, error) {
	if s := m.find(reg); s != nil && s.FullName == name {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	out := make([]model.Student, 0, len(m.students))
	for i := len(m.students) - 1; i >= 0; i-- {
		out = append(out, *m.students[i])
	}
	return out, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[uint]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if existing.RegNumber == u.RegNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uint(len(m.users) + 1)
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByRegNumber(_ context.Context, reg string) (*model.User, error) {
	for _, u := range m.users {
		if u.RegNumber == reg {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockUserRepo) MarkVoted(_ context.Context, id uint) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.HasVoted = true
	return nil
}

func (m *mockUserRepo) UpdateProfilePicture(_ context.Context, id uint, path string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ProfilePicture = &path
	return nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins []*model.Admin
}

func (m *mockAdminRepo) Create(_ context.Context, a *model.Admin) error {
	for _, existing := range m.admins {
		if existing.Username == a.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	a.ID = uint(len(m.admins) + 1)
	m.admins = append(m.admins, a)
	return nil
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.admins)), nil
}

// ── Mock PositionRepository ──

type mockPositionRepo struct {
	positions []*model.Position
}

func (m *mockPositionRepo) Create(_ context.Context, p *model.Position) error {
	for _, existing := range m.positions {
		if existing.Name == p.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	p.ID = uint(len(m.positions) + 1)
	p.CreatedAt = time.Now().Add(time.Duration(p.ID) * time.Second)
	m.positions = append(m.positions, p)
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id uint) (*model.Position, error) {
	for _, p := range m.positions {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(_ context.Context) ([]model.Position, error) {
	out := make([]model.Position, 0, len(m.positions))
	for i := len(m.positions) - 1; i >= 0; i-- {
		out = append(out, *m.positions[i])
	}
	return out, nil
}

func (m *mockPositionRepo) ListInBallotOrder(_ context.Context) ([]model.Position, error) {
	out := make([]model.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, *p)
	}
	return out, nil
}

// ── Mock ContestantRepository ──

type mockContestantRepo struct {
	contestants []*model.Contestant
}

func (m *mockContestantRepo) Create(_ context.Context, c *model.Contestant) error {
	c.ID = uint(len(m.contestants) + 1)
	m.contestants = append(m.contestants, c)
	return nil
}

func (m *mockContestantRepo) GetByID(_ context.Context, id uint) (*model.Contestant, error) {
	for _, c := range m.contestants {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContestantRepo) ListWithPosition(_ context.Context) ([]repository.ContestantWithPosition, error) {
	out := make([]repository.ContestantWithPosition, 0, len(m.contestants))
	for i := len(m.contestants) - 1; i >= 0; i-- {
		c := m.contestants[i]
		out = append(out, repository.ContestantWithPosition{ID: c.ID, PositionID: c.PositionID, Name: c.Name, Verified: c.Verified})
	}
	return out, nil
}

func (m *mockContestantRepo) verified(less func(a, b model.Contestant) bool) []model.Contestant {
	var out []model.Contestant
	for _, c := range m.contestants {
		if c.Verified {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PositionID != out[j].PositionID {
			return out[i].PositionID < out[j].PositionID
		}
		return less(out[i], out[j])
	})
	return out
}

func (m *mockContestantRepo) ListVerified(_ context.Context) ([]model.Contestant, error) {
	return m.verified(func(a, b model.Contestant) bool { return a.ID < b.ID }), nil
}

func (m *mockContestantRepo) ListVerifiedByName(_ context.Context) ([]model.Contestant, error) {
	return m.verified(func(a, b model.Contestant) bool { return a.Name < b.Name }), nil
}

func (m *mockContestantRepo) Verify(_ context.Context, id uint) error {
	for _, c := range m.contestants {
		if c.ID == id {
			c.Verified = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock VoteRepository ──

type mockVoteRepo struct {
	votes     []*model.Vote
	createErr error
}

func (m *mockVoteRepo) Create(_ context.Context, v *model.Vote) error {
	if m.createErr != nil {
		return m.createErr
	}
	v.ID = uint(len(m.votes) + 1)
	v.CreatedAt = time.Now()
	m.votes = append(m.votes, v)
	return nil
}

func (m *mockVoteRepo) ListDetailed(_ context.Context, newestFirst bool) ([]repository.VoteDetail, error) {
	out := make([]repository.VoteDetail, 0, len(m.votes))
	for _, v := range m.votes {
		out = append(out, repository.VoteDetail{
			ID: v.ID, UserID: v.UserID, PositionID: v.PositionID, ContestantID: v.ContestantID,
			Choice: v.Choice, Photo: v.Photo, IsCancelled: v.IsCancelled,
			CancelledBy: v.CancelledBy, CancelledAt: v.CancelledAt, CreatedAt: v.CreatedAt,
		})
	}
	if newestFirst {
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out, nil
}

func (m *mockVoteRepo) Cancel(_ context.Context, id, adminID uint, at time.Time) error {
	for _, v := range m.votes {
		if v.ID == id {
			v.IsCancelled = true
			v.CancelledBy = &adminID
			v.CancelledAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockVoteRepo) Tally(_ context.Context) ([]repository.VoteTally, error) {
	type key struct {
		pos       uint
		cont      uint
		hasCont   bool
		choice    string
		cancelled bool
	}
	counts := make(map[key]int64)
	var order []key
	for _, v := range m.votes {
		k := key{pos: v.PositionID, choice: v.Choice, cancelled: v.IsCancelled}
		if v.ContestantID != nil {
			k.cont, k.hasCont = *v.ContestantID, true
		}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	out := make([]repository.VoteTally, 0, len(order))
	for _, k := range order {
		t := repository.VoteTally{PositionID: k.pos, Choice: k.choice, IsCancelled: k.cancelled, Count: counts[k]}
		if k.hasCont {
			id := k.cont
			t.ContestantID = &id
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockVoteRepo) ListVoterLogs(_ context.Context) ([]repository.VoterLog, error) {
	var out []repository.VoterLog
	for i := len(m.votes) - 1; i >= 0; i-- {
		if !m.votes[i].IsCancelled {
			out = append(out, repository.VoterLog{VotedAt: m.votes[i].CreatedAt})
		}
	}
	return out, nil
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	items []*model.Announcement
}

func (m *mockAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	a.ID = uint(len(m.items) + 1)
	m.items = append(m.items, a)
	return nil
}

func (m *mockAnnouncementRepo) ListLatest(_ context.Context, limit int) ([]repository.AnnouncementWithAdmin, error) {
	var out []repository.AnnouncementWithAdmin
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		a := m.items[i]
		out = append(out, repository.AnnouncementWithAdmin{ID: a.ID, AdminID: a.AdminID, Title: a.Title, Content: a.Content})
	}
	return out, nil
}

// ── Mock SettingRepository ──

type mockSettingRepo struct {
	values map[string]string
	writes []string // "key=value" in write order
}

func newMockSettingRepo(values map[string]string) *mockSettingRepo {
	m := &mockSettingRepo{values: make(map[string]string)}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) GetAll(_ context.Context) ([]model.Setting, error) {
	out := make([]model.Setting, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, model.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *mockSettingRepo) Set(_ context.Context, key, value string) error {
	if _, ok := m.values[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.values[key] = value
	m.writes = append(m.writes, key+"="+value)
	return nil
}

func (m *mockSettingRepo) SeedDefaults(_ context.Context, defaults map[string]string) error {
	for k, v := range defaults {
		if _, ok := m.values[k]; !ok {
			m.values[k] = v
		}
	}
	return nil
}

// ── Mock collaborators ──

type publishedEvent struct {
	Name string
	Data interface{}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockPublisher) Publish(_ context.Context, name string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{Name: name, Data: data})
	return nil
}

type mockFileStore struct {
	saved []string
	err   error
}

func (m *mockFileStore) Save(fh *multipart.FileHeader, dir string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	path := "/uploads/" + dir + "/" + fh.Filename
	if dir == "" {
		path = "/uploads/" + fh.Filename
	}
	m.saved = append(m.saved, path)
	return path, nil
}

type mockBlacklist struct {
	jtis map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.jtis[jti] = ttl
	return nil
}

// ── Test environment ──

type testEnv struct {
	cfg          *config.Config
	jwtMgr       *jwt.Manager
	repo         *repository.Repository
	students     *mockStudentRepo
	users        *mockUserRepo
	admins       *mockAdminRepo
	positions    *mockPositionRepo
	contestants  *mockContestantRepo
	votes        *mockVoteRepo
	announcement *mockAnnouncementRepo
	settings     *mockSettingRepo
	events       *mockPublisher
	files        *mockFileStore
	logger       *zap.Logger
}

func newTestEnv(settings map[string]string) *testEnv {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "test-secret-key-for-unit-testing-2026",
			TokenTTL:     24 * time.Hour,
			DefaultAdmin: config.AdminSeed{Username: "admin", Password: "admin123"},
		},
	}
	env := &testEnv{
		cfg:          cfg,
		jwtMgr:       jwt.NewManager(&cfg.Auth),
		students:     &mockStudentRepo{},
		users:        newMockUserRepo(),
		admins:       &mockAdminRepo{},
		positions:    &mockPositionRepo{},
		contestants:  &mockContestantRepo{},
		votes:        &mockVoteRepo{},
		announcement: &mockAnnouncementRepo{},
		settings:     newMockSettingRepo(settings),
		events:       &mockPublisher{},
		files:        &mockFileStore{},
		logger:       zap.NewNop(),
	}
	env.repo = &repository.Repository{
		Student:      env.students,
		User:         env.users,
		Admin:        env.admins,
		Position:     env.positions,
		Contestant:   env.contestants,
		Vote:         env.votes,
		Announcement: env.announcement,
		Setting:      env.settings,
	}
	return env
}

func (e *testEnv) service(blacklist TokenBlacklist) *Service {
	return NewService(Deps{
		Config:    e.cfg,
		Repo:      e.repo,
		JWT:       e.jwtMgr,
		Files:     e.files,
		Events:    e.events,
		Blacklist: blacklist,
		Logger:    e.logger,
	})
}

func (e *testEnv) addUser(reg string, hasVoted bool) *model.User {
	u := &model.User{RegNumber: reg, FullName: "Voter " + reg, Level: "100", Department: "Mechanical", HasVoted: hasVoted}
	_ = e.users.Create(context.Background(), u)
	return u
}

func (e *testEnv) addPosition(name string) *model.Position {
	p := &model.Position{Name: name}
	_ = e.positions.Create(context.Background(), p)
	return p
}

func (e *testEnv) addContestant(positionID uint, name string, verified bool) *model.Contestant {
	c := &model.Contestant{PositionID: positionID, Name: name, Verified: verified}
	_ = e.contestants.Create(context.Background(), c)
	return c
}

func (e *testEnv) addVotes(userID, positionID uint, contestantID *uint, choice string, n int) {
	for i := 0; i < n; i++ {
		_ = e.votes.Create(context.Background(), &model.Vote{
			UserID: userID, PositionID: positionID, ContestantID: contestantID, Choice: choice, Photo: "/p.jpg",
		})
	}
}

func uintPtr(u uint) *uint { return &u }

func openSettings(votingOpen string) map[string]string {
	return map[string]string{
		model.SettingRegistrationOpen: "1",
		model.SettingVotingOpen:       votingOpen,
		model.SettingVotingEnded:      "0",
	}
}
