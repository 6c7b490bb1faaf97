package handlers_test

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/handlers"
	"VitoriaDiaria/internal/payment"
	"VitoriaDiaria/internal/repo"
	"VitoriaDiaria/internal/service"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testSecret        = "test-secret"
	testWebhookSecret = "whsec"
)

// fakeGateway — шлюз в памяти: выдаёт pref1, pref2, ... и хранит платежи для поиска.
type fakeGateway struct {
	mu       sync.Mutex
	requests []payment.PreferenceRequest
	fail     error
	payments map[string]*payment.PaymentInfo
}

func (g *fakeGateway) CreatePreference(_ context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return nil, g.fail
	}
	g.requests = append(g.requests, req)
	id := fmt.Sprintf("pref%d", len(g.requests))
	return &payment.Preference{ID: id, InitPoint: "https://checkout.test/" + id}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*payment.PaymentInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.payments[id]; ok {
		return p, nil
	}
	return nil, payment.ErrNotConfigured
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	router  http.Handler
	gateway *fakeGateway
	cfg     *config.Config
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	env := &testEnv{
		t:       t,
		db:      db,
		gateway: &fakeGateway{payments: map[string]*payment.PaymentInfo{}},
		cfg: &config.Config{
			AuthSecret:      testSecret,
			CheckInTZ:       "UTC",
			CORSOrigins:     "http://localhost:3000",
			PublicURL:       "http://vd.test",
			MPWebhookSecret: testWebhookSecret,
		},
		now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.router = env.build(handlers.Options{})
	return env
}

func (e *testEnv) build(opts handlers.Options) http.Handler {
	logger := zap.NewNop().Sugar()
	users := repo.NewUserRepository(e.db)
	items := repo.NewTrackerRepository(e.db)
	supports := repo.NewSupportRepository(e.db)

	userSvc := service.NewUserService(users)
	trackerSvc := service.NewTrackerService(users, items, logger)
	supportSvc := service.NewSupportService(users, items, supports, e.gateway, e.cfg.PublicURL, logger)

	if opts.Now == nil {
		opts.Now = func() time.Time { return e.now }
	}
	return handlers.NewHandler(userSvc, trackerSvc, supportSvc, logger, e.cfg, opts).Router
}

func (e *testEnv) do(method, path, body string, cookies []*http.Cookie, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// register регистрирует пользователя и возвращает его id и cookie.
func (e *testEnv) register(username string) (string, []*http.Cookie) {
	e.t.Helper()
	body := fmt.Sprintf(`{"login":"%s@example.com","password":"secret1","name":"%s","username":"%s"}`, username, strings.ToUpper(username), username)
	rr := e.do(http.MethodPost, "/api/user/register", body, nil)
	require.Equal(e.t, http.StatusOK, rr.Code, rr.Body.String())
	var u struct {
		ID string `json:"id"`
	}
	require.NoError(e.t, json.Unmarshal(rr.Body.Bytes(), &u))
	return u.ID, rr.Result().Cookies()
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l), rr.Body.String())
	return l
}
