package fx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/gometeo/tripview/internal/events"
	"github.com/gometeo/tripview/internal/generation"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "wk")
	t.Setenv("UNSPLASH_ACCESS_KEY", "pk")
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
}

func options(populate ...interface{}) fx.Option {
	return fx.Options(
		ConfigModule,
		LoggerModule,
		ClientsModule,
		GenerationModule,
		EventsModule,
		SearchModule,
		ServerModule,
		fx.NopLogger,
		fx.Populate(populate...),
	)
}

func TestAppStartsWithInProcessDefaults(t *testing.T) {
	setBaseEnv(t)

	var (
		tracker generation.Tracker
		pub     events.Publisher
		srv     *http.Server
	)
	app := fxtest.New(t, options(&tracker, &pub, &srv))
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := tracker.(*generation.Memory); !ok {
		t.Errorf("tracker = %T, want *generation.Memory", tracker)
	}
	if _, ok := pub.(events.Nop); !ok {
		t.Errorf("publisher = %T, want events.Nop", pub)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
}

func TestAppUsesRedisWhenConfigured(t *testing.T) {
	setBaseEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())

	var (
		tracker generation.Tracker
		srv     *http.Server
	)
	app := fxtest.New(t, options(&tracker, &srv))
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := tracker.(*generation.Redis); !ok {
		t.Fatalf("tracker = %T, want *generation.Redis", tracker)
	}

	mr.Close()
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health with redis down = %d", rec.Code)
	}
}

func TestAppRequiresCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "")

	var srv *http.Server
	app := fx.New(options(&srv))
	if app.Err() == nil {
		t.Fatal("expected missing credentials to fail the app")
	}
}
