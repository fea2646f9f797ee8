package session

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/irsalhamdi/learner-portal/config"
	"github.com/irsalhamdi/learner-portal/database"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env:        []string{"POSTGRES_PASSWORD=postgres", "POSTGRES_DB=portal"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("starting postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purging postgres: %v", err)
		}
	})
	_ = resource.Expire(120)

	cfg := config.DB{
		User:         "postgres",
		Password:     "postgres",
		Host:         resource.GetHostPort("5432/tcp"),
		Name:         "portal",
		MaxIdleConns: 2,
		MaxOpenConns: 4,
		DisableTLS:   true,
	}

	var db *sqlx.DB
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		var err error
		if db, err = database.Open(cfg); err != nil {
			return err
		}
		return database.StatusCheck(context.Background(), db)
	})
	if err != nil {
		t.Fatalf("waiting for postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func TestStore(t *testing.T) {
	db := startPostgres(t)
	s := NewStore(db)

	if _, found, err := s.Find("missing"); err != nil || found {
		t.Fatalf("expected no session, got found=%v err=%v", found, err)
	}

	if err := s.Commit("tok", []byte("one"), time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit("tok", []byte("two"), time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	b, found, err := s.Find("tok")
	if err != nil || !found || string(b) != "two" {
		t.Fatalf("expected the replaced session, got %q found=%v err=%v", b, found, err)
	}

	if err := s.Commit("old", []byte("x"), time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.Find("old"); found {
		t.Fatal("expired session returned")
	}

	n, err := s.DeleteExpired(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected one expired session deleted, got %d err=%v", n, err)
	}

	if err := s.Delete("tok"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.Find("tok"); found {
		t.Fatal("deleted session returned")
	}
}

func TestNewManager(t *testing.T) {
	m := NewManager(config.Session{Lifetime: time.Hour, CookieName: "portal_session", Secure: true}, nil)

	if m.Lifetime != time.Hour || m.Cookie.Name != "portal_session" || !m.Cookie.Secure || !m.Cookie.HttpOnly {
		t.Fatalf("unexpected manager settings %+v", m.Cookie)
	}
}
