package commands

import (
	"VitoriaDiaria/internal/config"
	"VitoriaDiaria/internal/handlers"
	"VitoriaDiaria/internal/payment"
	"VitoriaDiaria/internal/repo"
	"VitoriaDiaria/internal/service"
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/логин) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// withStdoutCapture перехватывает вывод CLI на время fn.
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// stubGateway выдаёт ссылки на оплату либо падает, если down.
type stubGateway struct {
	mu   sync.Mutex
	n    int
	down bool
}

func (g *stubGateway) CreatePreference(_ context.Context, _ payment.PreferenceRequest) (*payment.Preference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return nil, errors.New("gateway down")
	}
	g.n++
	return &payment.Preference{ID: "pref", InitPoint: "https://checkout.test/pay"}, nil
}

func (g *stubGateway) setDown(down bool) {
	g.mu.Lock()
	g.down = down
	g.mu.Unlock()
}

func (g *stubGateway) GetPayment(context.Context, string) (*payment.PaymentInfo, error) {
	return nil, payment.ErrNotConfigured
}

// newServer поднимает настоящий HTTP API на SQLite в памяти и возвращает конфиг клиента.
func newServer(t *testing.T) (*config.Config, *stubGateway) {
	t.Helper()
	withTempConfig(t)

	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	logger := zap.NewNop().Sugar()
	users := repo.NewUserRepository(db)
	items := repo.NewTrackerRepository(db)
	supports := repo.NewSupportRepository(db)
	gw := &stubGateway{}

	srvCfg := &config.Config{AuthSecret: "cli-test", CheckInTZ: "UTC", PublicURL: "http://vd.test"}
	h := handlers.NewHandler(
		service.NewUserService(users),
		service.NewTrackerService(users, items, logger),
		service.NewSupportService(users, items, supports, gw, srvCfg.PublicURL, logger),
		logger, srvCfg,
		handlers.Options{Now: func() time.Time { return time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC) }},
	)
	ts := httptest.NewServer(h.Router)
	t.Cleanup(func() {
		ts.Close()
		_ = sqlDB.Close()
	})
	return &config.Config{ServerURL: ts.URL}, gw
}

// run выполняет команду через диспетчер и возвращает код и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}

func registerUser(t *testing.T, cfg *config.Config, username string) {
	t.Helper()
	code, out := run(t, cfg, "register", username+"@example.com", "secret1", "User "+username, username)
	require.Equal(t, 0, code, out)
}
