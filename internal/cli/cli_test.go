package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/events"
	"appointment-booking-server/internal/routes"
	"appointment-booking-server/internal/service"

	"github.com/rs/zerolog"
)

func TestRunDemo(t *testing.T) {
	cfg := &config.Config{
		Simulation:     service.Config{SlotAvailability: 1, DefaultFee: 500, DefaultDuration: 30},
		SimulationSeed: 7,
	}
	var buf bytes.Buffer
	if err := runDemo(context.Background(), cfg, "2", zerolog.New(&buf)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, step := range []string{"booked", "rescheduled", "cancelled", "refund processed"} {
		if !strings.Contains(out, step) {
			t.Errorf("expected %q in demo log", step)
		}
	}
	if !strings.Contains(out, `"amount":800`) {
		t.Errorf("expected refund of the doctor fee, got %s", out)
	}
}

func TestRunDemo_UnknownDoctor(t *testing.T) {
	cfg := &config.Config{Simulation: service.Config{SlotAvailability: 1}}
	if err := runDemo(context.Background(), cfg, "404", zerolog.Nop()); err == nil {
		t.Error("expected booking with an unknown doctor to fail")
	}
}

func TestInstant(t *testing.T) {
	c := instant(service.DefaultConfig())
	if c.BookDelay != 0 || c.BookFailureRate != 0 || c.SlotAvailability != 0.7 {
		t.Errorf("unexpected instant config %+v", c)
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := &config.Config{Environment: "production", LogLevel: "warn"}
	var buf bytes.Buffer
	log := newLogger(cfg, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output %s", buf.String())
	}
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "demo"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("expected %s subcommand", name)
		}
	}
}

func TestNewRouter_Middleware(t *testing.T) {
	cfg := &config.Config{Environment: "development", Origin: "http://localhost:8081", JWTSecret: "secret", JWTExpirationMinutes: 5}
	st, err := openStore(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	router := newRouter(cfg, zerolog.Nop(), routes.Dependencies{
		Config:      cfg,
		Store:       st,
		Service:     newService(cfg, st, zerolog.Nop()),
		Broadcaster: events.NewBroadcaster(zerolog.Nop()),
		Log:         zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Content-Encoding") != "gzip" {
		t.Errorf("expected gzipped 200, got %d %q", w.Code, w.Header().Get("Content-Encoding"))
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request ID header")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8081" {
		t.Errorf("expected CORS preflight to allow the origin, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestOpenStore_Seed(t *testing.T) {
	st, err := openStore(&config.Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Appointments()) != 2 || len(st.Doctors()) != 3 {
		t.Errorf("expected seeded store, got %d appointments and %d doctors", len(st.Appointments()), len(st.Doctors()))
	}
}
