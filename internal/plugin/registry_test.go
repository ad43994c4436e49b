package plugin

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/config"
)

type fakeModule struct {
	name    string
	initErr error
	initCfg *config.Config
	started bool
	stopped *[]string
	routes  []Route
}

func (f *fakeModule) Info() Info { return Info{Name: f.name, Version: "test"} }

func (f *fakeModule) Init(cfg *config.Config, _ *zap.Logger) error {
	f.initCfg = cfg
	return f.initErr
}

func (f *fakeModule) Start(context.Context) error { f.started = true; return nil }

func (f *fakeModule) Stop() error {
	if f.stopped != nil {
		*f.stopped = append(*f.stopped, f.name)
	}
	return nil
}

func (f *fakeModule) Routes() []Route { return f.routes }

func noop(http.ResponseWriter, *http.Request) {}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	if err := r.Register(&fakeModule{name: "catalog"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&fakeModule{name: "catalog"}); err == nil {
		t.Error("expected error for duplicate module")
	}
	if err := r.Register(&fakeModule{}); err == nil {
		t.Error("expected error for unnamed module")
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	var stopped []string
	a := &fakeModule{name: "a", stopped: &stopped, routes: []Route{{Method: "GET", Path: "/x", Handler: noop}}}
	b := &fakeModule{name: "b", stopped: &stopped}
	c := &fakeModule{name: "c", stopped: &stopped, routes: []Route{{Method: "GET", Path: "/y", Handler: noop}}}

	r := NewRegistry(zap.NewNop())
	for _, m := range []*fakeModule{a, b, c} {
		if err := r.Register(m); err != nil {
			t.Fatal(err)
		}
	}

	v := viper.New()
	v.Set("modules.a.limit", 5)
	v.Set("modules.c.enabled", false)
	if err := r.InitAll(config.New(v)); err != nil {
		t.Fatalf("InitAll() error = %v", err)
	}

	if got := a.initCfg.GetInt("limit"); got != 5 {
		t.Errorf("module a limit = %d, want 5", got)
	}
	if c.initCfg != nil {
		t.Error("disabled module c was initialized")
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if !a.started || !b.started || c.started {
		t.Errorf("started = a:%v b:%v c:%v, want true true false", a.started, b.started, c.started)
	}

	routes := r.AllRoutes()
	if _, ok := routes["a"]; !ok {
		t.Error("routes missing module a")
	}
	if _, ok := routes["c"]; ok {
		t.Error("routes include disabled module c")
	}
	if got := len(r.Enabled()); got != 2 {
		t.Errorf("len(Enabled()) = %d, want 2", got)
	}
	if got := len(r.All()); got != 3 {
		t.Errorf("len(All()) = %d, want 3", got)
	}

	r.StopAll()
	if len(stopped) != 2 || stopped[0] != "b" || stopped[1] != "a" {
		t.Errorf("stop order = %v, want [b a]", stopped)
	}
}

func TestRegistry_InitError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(zap.NewNop())
	_ = r.Register(&fakeModule{name: "leads", initErr: boom})

	err := r.InitAll(config.New(nil))
	if !errors.Is(err, boom) {
		t.Errorf("InitAll() error = %v, want wrapped boom", err)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	_ = r.Register(&fakeModule{name: "charts"})

	if _, ok := r.Get("charts"); !ok {
		t.Error("Get(charts) not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) found")
	}
}

type healthyModule struct {
	fakeModule
	status      HealthStatus
	validateErr error
}

func (h *healthyModule) Health(context.Context) HealthStatus { return h.status }

func (h *healthyModule) ValidateConfig() error { return h.validateErr }

func TestRegistry_Health(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	_ = r.Register(&healthyModule{fakeModule: fakeModule{name: "leads"}, status: HealthStatus{Status: HealthDegraded, Message: "missing key"}})
	_ = r.Register(&fakeModule{name: "catalog"})
	_ = r.Register(&healthyModule{fakeModule: fakeModule{name: "off"}, status: HealthStatus{Status: HealthOK}})

	v := viper.New()
	v.Set("modules.off.enabled", false)
	if err := r.InitAll(config.New(v)); err != nil {
		t.Fatalf("InitAll() error = %v", err)
	}

	got := r.Health(context.Background())
	if len(got) != 1 {
		t.Fatalf("Health() = %v, want only leads", got)
	}
	if got["leads"].Status != HealthDegraded || got["leads"].Message != "missing key" {
		t.Errorf("leads health = %+v", got["leads"])
	}
}

func TestRegistry_ValidateConfig(t *testing.T) {
	bad := errors.New("bad base_url")
	r := NewRegistry(zap.NewNop())
	_ = r.Register(&healthyModule{fakeModule: fakeModule{name: "leads"}, validateErr: bad})

	err := r.InitAll(config.New(nil))
	if !errors.Is(err, bad) {
		t.Errorf("InitAll() error = %v, want wrapped validation error", err)
	}
	if len(r.Enabled()) != 0 {
		t.Error("module failing validation must not be enabled")
	}
}
