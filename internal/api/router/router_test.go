package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/api/handler"
	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/jwt"
	"github.com/Iamanointing/mvv/pkg/upload"
)

type testServer struct {
	engine *gin.Engine
	hub    *realtime.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			UploadDir:   t.TempDir(),
			MaxUploadMB: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:    "router-test-secret-0123456789",
			TokenTTL:     time.Hour,
			DefaultAdmin: config.AdminSeed{Username: "admin", Password: "admin123"},
		},
	}
	log := zap.NewNop()

	files, err := upload.NewStore(cfg.Server.UploadDir, cfg.Server.MaxUploadMB<<20)
	if err != nil {
		t.Fatalf("upload store: %v", err)
	}

	hub := realtime.NewHub(&cfg.Realtime, nil, log)
	t.Cleanup(hub.Close)

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(service.Deps{
		Config: cfg,
		Repo:   repository.NewRepository(db),
		JWT:    jwtMgr,
		Files:  files,
		Events: hub,
		Logger: log,
	})
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	engine := Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, hub, db, log)
	return &testServer{engine: engine, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) multipart(t *testing.T, path, token string, fields map[string]string, fileField string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileField != "" {
		fw, _ := mw.CreateFormFile(fileField, "capture.png")
		_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\nfake image body"))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// expect fails the test immediately when the status differs.
func expect(t *testing.T, w *httptest.ResponseRecorder, code int, step string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("%s: expected %d, got %d: %s", step, code, w.Code, w.Body.String())
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func errorOf(w *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Error
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/admin/login", "", dto.AdminLoginRequest{Username: "admin", Password: "admin123"})
	expect(t, w, http.StatusOK, "admin login")
	var res dto.LoginResponse
	decode(t, w, &res)
	if res.Token == "" {
		t.Fatal("admin login returned no token")
	}
	return res.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	expect(t, w, http.StatusOK, "health")
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("security headers missing, X-Content-Type-Options = %q", got)
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/admin/settings", "", nil)
	expect(t, w, http.StatusUnauthorized, "no token")
	if errorOf(w) != "Access token required" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/admin/settings", "garbage", nil)
	expect(t, w, http.StatusForbidden, "bad token")
	if errorOf(w) != "Invalid or expired token" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	expect(t, s.do(t, http.MethodGet, "/api/results/realtime", "", nil), http.StatusOK, "realtime results")
	expect(t, s.do(t, http.MethodGet, "/api/announcements", "", nil), http.StatusOK, "announcements")
	expect(t, s.do(t, http.MethodGet, "/api/results/detailed", "", nil), http.StatusUnauthorized, "detailed results")
}

func TestElectionFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	// seeded settings
	w := s.do(t, http.MethodGet, "/api/admin/settings", admin, nil)
	expect(t, w, http.StatusOK, "get settings")
	var settings map[string]string
	decode(t, w, &settings)
	if settings[model.SettingRegistrationOpen] != "1" || settings[model.SettingVotingOpen] != "0" {
		t.Fatalf("unexpected seeded settings %v", settings)
	}

	// position and contestants
	w = s.do(t, http.MethodPost, "/api/admin/positions", admin, dto.CreatePositionRequest{Name: "President"})
	expect(t, w, http.StatusCreated, "create position")
	var position model.Position
	decode(t, w, &position)

	w = s.do(t, http.MethodPost, "/api/admin/positions", admin, dto.CreatePositionRequest{Name: "President"})
	expect(t, w, http.StatusBadRequest, "duplicate position")

	contestantIDs := make([]uint, 0, 2)
	for _, name := range []string{"Ada", "Bayo"} {
		w = s.multipart(t, "/api/admin/contestants", admin, map[string]string{
			"position_id": fmt.Sprint(position.ID),
			"name":        name,
		}, "photo")
		expect(t, w, http.StatusCreated, "create contestant "+name)
		var c model.Contestant
		decode(t, w, &c)
		if c.Photo == nil || !strings.HasPrefix(*c.Photo, upload.URLPrefix+"/") {
			t.Errorf("contestant %s: unexpected photo %v", name, c.Photo)
		}
		contestantIDs = append(contestantIDs, c.ID)

		w = s.do(t, http.MethodPut, fmt.Sprintf("/api/admin/contestants/%d/verify", c.ID), admin, nil)
		expect(t, w, http.StatusOK, "verify "+name)
	}

	w = s.do(t, http.MethodPut, "/api/admin/contestants/999/verify", admin, nil)
	expect(t, w, http.StatusNotFound, "verify unknown contestant")

	// roster and registration
	w = s.do(t, http.MethodPost, "/api/admin/students", admin, dto.CreateStudentRequest{
		RegNumber: "VES/2021/001", FullName: "Chidi Okafor", Level: "300", Department: "Physics",
	})
	expect(t, w, http.StatusCreated, "add student")

	register := dto.RegisterRequest{
		RegNumber: "VES/2021/001", Password: "secret1", FullName: "Chidi Okafor",
		Level: "300", Department: "Physics",
	}
	expect(t, s.do(t, http.MethodPost, "/api/auth/register", "", register), http.StatusCreated, "register")
	expect(t, s.do(t, http.MethodPost, "/api/auth/register", "", register), http.StatusBadRequest, "register again")

	w = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{RegNumber: "VES/2021/001", Password: "secret1"})
	expect(t, w, http.StatusOK, "voter login")
	var login dto.LoginResponse
	decode(t, w, &login)
	voter := login.Token
	if login.User == nil || login.User.HasVoted {
		t.Fatalf("unexpected login user %+v", login.User)
	}

	// role separation
	w = s.do(t, http.MethodGet, "/api/admin/settings", voter, nil)
	expect(t, w, http.StatusForbidden, "voter on admin route")
	if errorOf(w) != "Admin access required" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/voting/status", admin, nil)
	expect(t, w, http.StatusForbidden, "admin on voter route")
	if errorOf(w) != "Access denied" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	// ballot
	w = s.do(t, http.MethodGet, "/api/voting/positions", voter, nil)
	expect(t, w, http.StatusOK, "ballot")
	var ballot dto.BallotResponse
	decode(t, w, &ballot)
	if len(ballot.Positions) != 1 || ballot.Positions[0].ContestantCount != 2 || ballot.VotingOpen {
		t.Fatalf("unexpected ballot %+v", ballot)
	}

	votes := fmt.Sprintf(`[{"position_id":%d,"contestant_id":%d,"choice":"%s"}]`,
		position.ID, contestantIDs[0], model.ChoiceCandidate)

	w = s.multipart(t, "/api/voting/submit", voter, map[string]string{"votes": votes}, "photo")
	expect(t, w, http.StatusForbidden, "submit while closed")

	w = s.do(t, http.MethodPost, "/api/admin/settings/toggle-voting", admin, nil)
	expect(t, w, http.StatusOK, "toggle voting")
	var toggled map[string]bool
	decode(t, w, &toggled)
	if !toggled[model.SettingVotingOpen] {
		t.Fatalf("voting should be open, got %v", toggled)
	}

	w = s.multipart(t, "/api/voting/submit", voter, map[string]string{"votes": votes}, "")
	expect(t, w, http.StatusBadRequest, "submit without photo")

	w = s.multipart(t, "/api/voting/submit", voter, map[string]string{"votes": votes}, "photo")
	expect(t, w, http.StatusOK, "submit")

	w = s.multipart(t, "/api/voting/submit", voter, map[string]string{"votes": votes}, "photo")
	expect(t, w, http.StatusForbidden, "submit twice")

	w = s.do(t, http.MethodGet, "/api/voting/status", voter, nil)
	expect(t, w, http.StatusOK, "status")
	var status dto.VotingStatusResponse
	decode(t, w, &status)
	if !status.HasVoted {
		t.Error("has_voted should be true after submitting")
	}

	// results
	w = s.do(t, http.MethodGet, "/api/results/realtime", "", nil)
	expect(t, w, http.StatusOK, "realtime results")
	var results []dto.PositionResult
	decode(t, w, &results)
	if len(results) != 1 {
		t.Fatalf("expected 1 position result, got %d", len(results))
	}
	if results[0].TotalValidVotes != 1 {
		t.Errorf("total valid votes = %d, want 1", results[0].TotalValidVotes)
	}
	if results[0].Winner == nil || results[0].Winner.Name != "Ada" {
		t.Errorf("unexpected winner %+v", results[0].Winner)
	}

	w = s.do(t, http.MethodGet, "/api/results/export", admin, nil)
	expect(t, w, http.StatusOK, "export")
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	// end voting closes the ballot
	expect(t, s.do(t, http.MethodPost, "/api/admin/settings/end-voting", admin, nil), http.StatusOK, "end voting")

	w = s.do(t, http.MethodGet, "/api/admin/settings", admin, nil)
	decode(t, w, &settings)
	if settings[model.SettingVotingOpen] != "0" || settings[model.SettingVotingEnded] != "1" {
		t.Errorf("unexpected settings after end voting %v", settings)
	}
}

func TestLogout_RevocationWithoutRedis(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	expect(t, s.do(t, http.MethodPost, "/api/auth/logout", admin, nil), http.StatusOK, "logout")

	// without redis there is no blacklist; the token stays valid until expiry
	expect(t, s.do(t, http.MethodGet, "/api/admin/settings", admin, nil), http.StatusOK, "after logout")
}
