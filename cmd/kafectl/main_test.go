package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopimi-kafe/backend/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMenuAddListRemove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kopimi.db")

	out, err := run(t, "--local", db, "menu", "add", "--name", "Es Kopi Susu", "--price", "3.25", "--category", "Coffee")
	require.NoError(t, err)
	id := string(bytes.TrimSpace([]byte(out)))
	assert.Contains(t, id, "menu-")

	out, err = run(t, "--local", db, "menu", "list", "--category", "Coffee")
	require.NoError(t, err)
	assert.Contains(t, out, "Es Kopi Susu")
	assert.Contains(t, out, "3.25")
	assert.NotContains(t, out, "Croissant")

	_, err = run(t, "--local", db, "menu", "remove", id)
	require.NoError(t, err)

	out, err = run(t, "--local", db, "menu", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Es Kopi Susu")

	_, err = run(t, "--local", db, "menu", "remove", id)
	assert.ErrorContains(t, err, "not found")
}

func TestMenuAddRejectsUnknownCategory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kopimi.db")

	_, err := run(t, "--local", db, "menu", "add", "--name", "Bubble Tea", "--price", "4", "--category", "Boba")
	assert.ErrorContains(t, err, "does not exist")
}

func TestHoursSetAndShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kopimi.db")

	_, err := run(t, "--local", db, "hours", "set", "friday", "18:00", "02:00")
	require.NoError(t, err)
	_, err = run(t, "--local", db, "hours", "set", "Sunday", "closed")
	require.NoError(t, err)

	out, err := run(t, "--local", db, "hours", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "18:00 - 02:00")
	assert.Contains(t, out, "closed")

	_, err = run(t, "--local", db, "hours", "set", "monday", "7:00", "22:00")
	assert.Error(t, err)
	_, err = run(t, "--local", db, "hours", "set", "someday", "closed")
	assert.Error(t, err)
}

func TestParseDayHours(t *testing.T) {
	d, err := parseDayHours([]string{"CLOSED"})
	require.NoError(t, err)
	assert.False(t, d.IsOpen)

	d, err = parseDayHours([]string{"08:00", "17:30"})
	require.NoError(t, err)
	assert.Equal(t, domain.DayHours{IsOpen: true, Open: "08:00", Close: "17:30"}, d)

	_, err = parseDayHours([]string{"open"})
	assert.Error(t, err)
	_, err = parseDayHours([]string{"08:00", "25:00"})
	assert.Error(t, err)
}

func TestSnapshotExportImportYAML(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "kopimi.db")
	file := filepath.Join(dir, "snapshot.yaml")

	_, err := run(t, "--local", db, "snapshot", "export", "--format", "yaml", "--output", file)
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "menuItems:")
	assert.Contains(t, string(data), "Kopimi Kafe")

	snapshot, err := decodeSnapshot(data, "yaml")
	require.NoError(t, err)
	snapshot.Settings.Name = "Kopimi Kafe Bandung"
	yml, err := encodeSnapshot(snapshot, "yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, yml, 0o644))

	out, err := run(t, "--local", db, "snapshot", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported")

	out, err = run(t, "--local", db, "snapshot", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Kopimi Kafe Bandung")
}

func TestEncodeSnapshotUnknownFormat(t *testing.T) {
	_, err := encodeSnapshot(domain.DefaultSnapshot(time.Now()), "toml")
	assert.Error(t, err)
}

func TestStatusThroughAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"message":"","data":{"isOpen":true,"message":"Open until 22:00","configured":true}}`))
		case "/api/database":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"categories":["Coffee"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "Open until 22:00")
}

func TestStatusThroughAPIWithoutOperatingHours(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/status":
			_, _ = w.Write([]byte(`{"success":true,"message":"shop status","data":{"isOpen":false,"message":"","configured":false}}`))
		case "/api/database":
			_, _ = w.Write([]byte(`{"categories":["Coffee"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "status")
	require.NoError(t, err)
	assert.Equal(t, "no operating hours configured\n", out)
}

func TestStatusWatchRejectsNonPositiveInterval(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kopimi.db")

	for _, interval := range []string{"0s", "-1m"} {
		_, err := run(t, "--local", db, "status", "--watch", "--interval", interval)
		assert.ErrorContains(t, err, "--interval must be positive", interval)
	}
}

// kafeAPI mimics the admin login and the snapshot endpoints of the API.
type kafeAPI struct {
	mu        sync.Mutex
	fetchCode int
	saveCode  int
	snapshot  string
	posts     []savedRequest
}

type savedRequest struct {
	cookie string
	body   domain.Snapshot
}

func (f *kafeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/admin/login":
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "admin-session", Path: "/"})
		_, _ = w.Write([]byte(`{"success":true,"message":"Logged in","data":null}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/database":
		if f.fetchCode != 0 {
			w.WriteHeader(f.fetchCode)
			return
		}
		_, _ = w.Write([]byte(f.snapshot))
	case r.Method == http.MethodPost && r.URL.Path == "/api/database":
		req := savedRequest{}
		if c, err := r.Cookie("session"); err == nil {
			req.cookie = c.Value
		}
		_ = json.NewDecoder(r.Body).Decode(&req.body)
		f.posts = append(f.posts, req)
		if f.saveCode != 0 {
			w.WriteHeader(f.saveCode)
			_, _ = w.Write([]byte(`{"success":false,"message":"Unauthorized","data":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Data saved.","data":null}`))
	default:
		http.NotFound(w, r)
	}
}

func (f *kafeAPI) saved() []savedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedRequest(nil), f.posts...)
}

func TestRemoteEditIsSavedOnExit(t *testing.T) {
	api := &kafeAPI{snapshot: `{"categories":["Coffee"],"menuItems":[{"id":"menu-1","name":"Kopi Tubruk","price":2,"category":"Coffee"}]}`}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "--password", "admin123", "--debounce", "1h",
		"menu", "add", "--name", "Es Kopi Susu", "--price", "3.25", "--category", "Coffee")
	require.NoError(t, err)
	id := string(bytes.TrimSpace([]byte(out)))

	posts := api.saved()
	require.Len(t, posts, 1)
	assert.Equal(t, "admin-session", posts[0].cookie)

	var names []string
	for _, item := range posts[0].body.MenuItems {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Kopi Tubruk", "Es Kopi Susu"}, names)
	assert.Equal(t, id, posts[0].body.MenuItems[1].ID)
}

func TestRemoteEditRejectedWithoutLogin(t *testing.T) {
	api := &kafeAPI{snapshot: `{"categories":["Coffee"]}`, saveCode: http.StatusUnauthorized}
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, err := run(t, "--api", srv.URL, "--password", "", "--debounce", "1h",
		"menu", "add", "--name", "Es Kopi Susu", "--price", "3.25", "--category", "Coffee")
	assert.ErrorContains(t, err, "log in with --password")
	require.Len(t, api.saved(), 1)
	assert.Empty(t, api.saved()[0].cookie)
}

func TestRemoteEditRefusedWhenLoadFails(t *testing.T) {
	api := &kafeAPI{fetchCode: http.StatusBadGateway}
	srv := httptest.NewServer(api)
	defer srv.Close()

	writers := [][]string{
		{"menu", "add", "--name", "Es Kopi Susu", "--price", "3.25", "--category", "Coffee"},
		{"menu", "remove", "menu-1"},
		{"hours", "set", "monday", "closed"},
	}
	for _, args := range writers {
		_, err := run(t, append([]string{"--api", srv.URL, "--password", "admin123", "--debounce", "1h"}, args...)...)
		assert.ErrorContains(t, err, "refusing to change it", args)
	}

	// reads still work on the fallback data
	_, err := run(t, "--api", srv.URL, "--password", "admin123", "menu", "list")
	assert.NoError(t, err)

	assert.Empty(t, api.saved())
}
