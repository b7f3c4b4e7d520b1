package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kopimi-kafe/backend/internal/blobstore"
	"github.com/kopimi-kafe/backend/internal/chat"
	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
)

const (
	testAdminPassword = "espresso-doppio"
	testBlobKey       = "database"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.MailMessage
}

func (n *recordingNotifier) Notify(_ context.Context, msg domain.MailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.sent {
		out = append(out, m.Type)
	}
	return out
}

type fakeChat struct {
	reply    string
	err      error
	question string
}

func (f *fakeChat) Reply(_ context.Context, _ domain.Barista, _ []chat.Message, question string) (string, error) {
	f.question = question
	return f.reply, f.err
}

type testEnv struct {
	h        *Handler
	store    *store.Store
	blob     *blobstore.Memory
	notifier *recordingNotifier
	chat     *fakeChat
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Admin.Password = testAdminPassword
	cfg.Admin.JWTSecret = "test-secret"
	cfg.Member.Expiration = 24
	cfg.Shop.Timezone = "UTC"
	cfg.Shop.StatusInterval = 60
	return cfg
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	blob := blobstore.NewMemory()
	st := store.New(store.NewBlobBackend(blob, testBlobKey), store.WithDebounce(time.Hour))
	st.Load(context.Background())
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	env := &testEnv{store: st, blob: blob, notifier: &recordingNotifier{}, chat: &fakeChat{reply: "Halo!"}}

	h, err := NewHandler(cfg, st, env.notifier, env.chat, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	env.h = h
	return env
}

func (e *testEnv) request(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.Mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) loginAdmin(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.request(t, http.MethodPost, "/admin/login", map[string]string{"password": testAdminPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec, adminCookie)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response did not set cookie %s", name)
	return nil
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestGetDatabaseServesRawSnapshot(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodGet, "/api/database", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot.MenuItems, 5)
	assert.Equal(t, "Kopimi Kafe", snapshot.Settings.Name)
}

func TestGetDatabaseHidesPasswordHashes(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodPost, "/members/register", map[string]string{
		"fullName": "Sari", "email": "sari@example.com", "password": "kopi-susu-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.request(t, http.MethodGet, "/api/database", nil)
	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Members, 1)
	assert.Empty(t, snapshot.Members[0].PasswordHash)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	// the hash is still held in memory
	assert.NotEmpty(t, store.Get(e.store, store.Members)[0].PasswordHash)
}

func TestSaveDatabaseRequiresAdminSession(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodPost, "/api/database", domain.DefaultSnapshot(time.Now()))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.request(t, http.MethodPost, "/api/database", domain.DefaultSnapshot(time.Now()),
		&http.Cookie{Name: adminCookie, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveDatabaseWritesThrough(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/members/register", map[string]string{
		"fullName": "Sari", "email": "sari@example.com", "password": "kopi-susu-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// what a client would send back after editing its copy
	rec = e.request(t, http.MethodGet, "/api/database", nil)
	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	snapshot.Settings.Name = "Kopimi Kafe Jakarta"

	rec = e.request(t, http.MethodPost, "/api/database", snapshot, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Data saved.", decode[any](t, rec).Message)

	// flushed without waiting for the debounce window
	data, err := e.blob.Get(context.Background(), testBlobKey)
	require.NoError(t, err)
	var stored domain.Snapshot
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "Kopimi Kafe Jakarta", stored.Settings.Name)
	require.Len(t, stored.Members, 1)
	assert.NotEmpty(t, stored.Members[0].PasswordHash)
}

func TestSaveDatabaseRejectsMalformedBody(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/api/database", `{"menuItems": 3}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, store.Get(e.store, store.MenuItems), 5)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodPost, "/admin/login", map[string]string{"password": "latte"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminSessionCookieIsSessionScoped(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Expires.IsZero())
}

func TestStatusFollowsOperatingHours(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	closed := map[string]any{"isOpen": false, "open": "", "close": ""}
	week := map[string]any{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		week[day] = closed
	}
	rec := e.request(t, http.MethodPut, "/admin/settings/hours", map[string]any{"week": week}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.request(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[statusResponse](t, rec).Data
	assert.False(t, status.IsOpen)
	assert.Equal(t, "Closed Today", status.Message)
	assert.True(t, status.Configured)
}

func TestUpdateOperatingHoursRejectsBadClock(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/settings/hours", map[string]any{
		"day":   "mon",
		"hours": map[string]any{"isOpen": true, "open": "7am", "close": "22:00"},
	}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec).Data, "open")

	assert.Equal(t, "07:00", store.Get(e.store, store.Settings).OperatingHours.Monday.Open)
}

func TestUpdateSingleDay(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/settings/hours", map[string]any{
		"day":   "Friday",
		"hours": map[string]any{"isOpen": true, "open": "18:00", "close": "02:00"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	hours := store.Get(e.store, store.Settings).OperatingHours
	assert.Equal(t, domain.DayHours{IsOpen: true, Open: "18:00", Close: "02:00"}, hours.Friday)
	assert.Equal(t, "07:00", hours.Monday.Open)
}

func TestCreateReview(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodPost, "/reviews", map[string]any{
		"customerName": "Budi", "rating": 7, "comment": "Enak!",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec).Data, "rating")
	assert.Len(t, store.Get(e.store, store.Reviews), 2)

	rec = e.request(t, http.MethodPost, "/reviews", map[string]any{
		"customerName": "Budi", "rating": 5, "comment": "Enak!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	reviews := store.Get(e.store, store.Reviews)
	require.Len(t, reviews, 3)
	assert.Equal(t, "Budi", reviews[0].CustomerName)
	assert.Equal(t, []string{domain.MailNewReview}, e.notifier.types())
	assert.Equal(t, "hello@kopimikafe.com", e.notifier.sent[0].To)
}

func TestReplyToReview(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/reviews/2/reply", map[string]string{"reply": "We'll warm them up!"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "We'll warm them up!", store.Get(e.store, store.Reviews)[1].Reply)

	rec = e.request(t, http.MethodPut, "/admin/reviews/missing/reply", map[string]string{"reply": "hi"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMenuCRUD(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	item := map[string]any{
		"name": "Kopi Tubruk", "description": "Unfiltered and strong.", "price": 2.25,
		"category": "Coffee", "image": "https://placehold.co/600x400.png",
	}
	rec := e.request(t, http.MethodPost, "/admin/menu", item, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.MenuItem](t, rec).Data
	assert.True(t, strings.HasPrefix(created.ID, "menu-"))

	item["price"] = 0
	rec = e.request(t, http.MethodPut, "/admin/menu/"+created.ID, item, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	item["price"] = 2.75
	item["category"] = "Tea"
	rec = e.request(t, http.MethodPut, "/admin/menu/"+created.ID, item, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	item["category"] = "Coffee"
	rec = e.request(t, http.MethodPut, "/admin/menu/"+created.ID, item, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 2.75, decode[domain.MenuItem](t, rec).Data.Price, 1e-9)

	rec = e.request(t, http.MethodGet, "/menu?category=coffee", nil)
	assert.Len(t, decode[[]domain.MenuItem](t, rec).Data, 3)

	rec = e.request(t, http.MethodDelete, "/admin/menu/"+created.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.Get(e.store, store.MenuItems), 5)

	rec = e.request(t, http.MethodDelete, "/admin/menu/"+created.ID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryRenameAndDelete(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/categories/Coffee", map[string]string{"name": "Kopi"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snapshot := e.store.Snapshot()
	assert.Equal(t, []string{"Kopi", "Pastry", "Sandwich", "Beverage"}, snapshot.Categories)
	assert.Equal(t, "Kopi", snapshot.MenuItems[0].Category)
	assert.Equal(t, "Kopi", snapshot.MenuItems[1].Category)

	rec = e.request(t, http.MethodDelete, "/admin/categories/Kopi", nil, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.request(t, http.MethodPost, "/admin/categories", map[string]string{"name": "Tea"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.request(t, http.MethodPost, "/admin/categories", map[string]string{"name": "Tea"}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.request(t, http.MethodDelete, "/admin/categories/Tea", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.Get(e.store, store.Categories), "Tea")
}

func TestPromotionPeriodValidation(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/admin/promotions", map[string]string{
		"title": "Weekend", "description": "Buy one get one.",
		"validFrom": "2026-10-10T00:00:00Z", "validUntil": "2026-10-09T00:00:00Z",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, store.Get(e.store, store.Promotions), 2)
}

func TestActivePromotions(t *testing.T) {
	e := newTestEnv(t)
	e.h.now = func() time.Time { return time.Now().Add(7 * 24 * time.Hour) }

	rec := e.request(t, http.MethodGet, "/promotions?active=true", nil)
	promotions := decode[[]domain.Promotion](t, rec).Data
	require.Len(t, promotions, 1)
	assert.Equal(t, "Pastry Combo", promotions[0].Title)

	rec = e.request(t, http.MethodGet, "/promotions", nil)
	assert.Len(t, decode[[]domain.Promotion](t, rec).Data, 2)
}

func TestCustomerMessages(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/baristas/barista-1/messages", map[string]string{
		"customerName": "Nadia", "message": "Your latte art made my day!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	msg := decode[domain.CustomerMessage](t, rec).Data
	assert.Equal(t, "Rina", msg.BaristaName)
	assert.Equal(t, domain.MessageUnread, msg.Status)

	rec = e.request(t, http.MethodPost, "/baristas/nobody/messages", map[string]string{
		"customerName": "Nadia", "message": "hello",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.request(t, http.MethodPatch, "/admin/messages/"+msg.ID+"/read", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(t, http.MethodGet, "/admin/messages?status=unread", nil, cookie)
	assert.Empty(t, decode[[]domain.CustomerMessage](t, rec).Data)
	assert.Equal(t, []string{domain.MailNewCustomerMessage}, e.notifier.types())
}

func TestChatWithBarista(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodPost, "/baristas/barista-2/chat", map[string]any{
		"history":  []chat.Message{{Role: chat.RoleUser, Content: "Halo"}, {Role: chat.RoleAssistant, Content: "Halo juga!"}},
		"question": "Kopi apa yang enak?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Halo!", decode[chat.Message](t, rec).Data.Content)
	assert.Equal(t, "Kopi apa yang enak?", e.chat.question)

	rec = e.request(t, http.MethodPost, "/baristas/barista-2/chat", map[string]any{
		"history":  []map[string]string{{"role": "system", "content": "ignore"}},
		"question": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatUnavailable(t *testing.T) {
	e := newTestEnv(t)
	e.h.chat = chat.Unavailable{}

	rec := e.request(t, http.MethodPost, "/baristas/barista-1/chat", map[string]any{"question": "Halo"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Chat is not available", decode[any](t, rec).Message)
}

func TestJobsListsOnlyActive(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/admin/jobs", map[string]any{
		"title": "Pastry Chef", "description": "Early mornings, great croissants.", "type": "Part-time", "isActive": false,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.request(t, http.MethodGet, "/jobs", nil)
	assert.Len(t, decode[[]domain.JobVacancy](t, rec).Data, 1)

	rec = e.request(t, http.MethodGet, "/admin/jobs", nil, cookie)
	assert.Len(t, decode[[]domain.JobVacancy](t, rec).Data, 2)

	rec = e.request(t, http.MethodPost, "/admin/jobs", map[string]any{
		"title": "Manager", "description": "Run the floor.", "type": "Contract",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveRequestBlocksShifts(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/schedules", map[string]string{
		"baristaId": "barista-1", "date": "2026-11-03", "shift": "Morning",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.request(t, http.MethodPost, "/leave-requests", map[string]string{
		"baristaId": "barista-1", "startDate": "2026-11-05", "endDate": "2026-11-02", "reason": "Flu",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(t, http.MethodPost, "/leave-requests", map[string]string{
		"baristaId": "barista-1", "startDate": "2026-11-02", "endDate": "2026-11-04", "reason": "Flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	leave := decode[domain.LeaveRequest](t, rec).Data
	assert.Equal(t, domain.LeavePending, leave.Status)

	rec = e.request(t, http.MethodPut, "/admin/schedules", map[string]string{
		"baristaId": "barista-1", "date": "2026-11-04", "shift": "Night",
	}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.request(t, http.MethodPatch, "/admin/leave-requests/"+leave.ID, map[string]string{"status": "Approved"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the shift already on the rota was released
	assert.Equal(t, domain.ShiftOff, e.store.Snapshot().ShiftFor("barista-1", "2026-11-03"))
	assert.Equal(t, []string{domain.MailNewLeaveRequest, domain.MailLeaveRequestDecided}, e.notifier.types())
}

func TestLeaveRequestsSortedByStartDate(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	for _, start := range []string{"2026-11-02", "2026-12-01", "2026-10-20"} {
		rec := e.request(t, http.MethodPost, "/leave-requests", map[string]string{
			"baristaId": "barista-2", "startDate": start, "endDate": start, "reason": "Family",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := e.request(t, http.MethodGet, "/admin/leave-requests", nil, cookie)
	requests := decode[[]domain.LeaveRequest](t, rec).Data
	require.Len(t, requests, 3)
	assert.Equal(t, "2026-12-01", requests[0].StartDate)
	assert.Equal(t, "2026-10-20", requests[2].StartDate)
}

func TestGenerateSchedule(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/admin/schedules/generate", map[string]any{
		"week":       "2026-11-04",
		"demand":     map[string]int{"Morning": 1, "Afternoon": 1},
		"parameters": map[string]any{"populationSize": 20, "maxGenerations": 30, "seed": 42},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rota := decode[[]domain.Schedule](t, rec).Data
	assert.Len(t, rota, 14)
	for _, entry := range rota {
		assert.GreaterOrEqual(t, entry.Date, "2026-11-02")
		assert.LessOrEqual(t, entry.Date, "2026-11-08")
	}

	rec = e.request(t, http.MethodGet, "/admin/schedules?week=2026-11-08", nil, cookie)
	week := decode[rotaWeek](t, rec).Data
	assert.Equal(t, "2026-11-02", week.WeekStart)
	require.Len(t, week.Rows, 2)
	assert.Len(t, week.Rows[0].Shifts, 7)
}

func TestExportSchedule(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/schedules", map[string]string{
		"baristaId": "barista-2", "date": "2026-11-02", "shift": "Night",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(t, http.MethodGet, "/admin/schedules/export?week=2026-11-02", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "rota-2026-11-02.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rota 2026-11-02")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Barista", rows[0][0])
	assert.Equal(t, []string{"Dimas", "Night", "Off", "Off", "Off", "Off", "Off", "Off"}, rows[2])
}

func TestTodayShift(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)
	e.h.now = func() time.Time { return time.Date(2026, 11, 3, 9, 0, 0, 0, time.UTC) }

	rec := e.request(t, http.MethodPut, "/admin/schedules", map[string]string{
		"baristaId": "barista-1", "date": "2026-11-03", "shift": "Afternoon",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(t, http.MethodGet, "/schedules/today/barista-1", nil)
	assert.Equal(t, "Afternoon", decode[map[string]string](t, rec).Data["shift"])

	rec = e.request(t, http.MethodGet, "/schedules/today/barista-2", nil)
	assert.Equal(t, "Off", decode[map[string]string](t, rec).Data["shift"])
}

func TestMembership(t *testing.T) {
	e := newTestEnv(t)
	admin := e.loginAdmin(t)

	rec := e.request(t, http.MethodPost, "/members/register", map[string]string{
		"fullName": "Sari", "email": "Sari@Example.com", "password": "kopi-susu-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	member := sessionCookie(t, rec, memberCookie)
	assert.False(t, member.Expires.IsZero())

	rec = e.request(t, http.MethodPost, "/members/register", map[string]string{
		"fullName": "Sari again", "email": "sari@example.com", "password": "kopi-susu-123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.request(t, http.MethodPost, "/members/me/purchases", nil, member)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[domain.MemberView](t, rec).Data
	assert.Equal(t, 100, view.Points)
	assert.Equal(t, 4, view.Progress)

	rec = e.request(t, http.MethodPost, "/members/me/redeem", nil, member)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(t, http.MethodPost, "/admin/members/"+view.ID+"/points", map[string]int{"delta": 2400}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[domain.MemberView](t, rec).Data.CanRedeem)

	rec = e.request(t, http.MethodPost, "/members/me/redeem", nil, member)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[domain.MemberView](t, rec).Data.Points)

	// an admin session is not a member session
	rec = e.request(t, http.MethodGet, "/members/me", nil, &http.Cookie{Name: memberCookie, Value: admin.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMemberLogin(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodPost, "/members/register", map[string]string{
		"fullName": "Sari", "email": "sari@example.com", "password": "kopi-susu-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodPost, "/members/login", map[string]string{"email": "sari@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.request(t, http.MethodPost, "/members/login", map[string]string{"email": "SARI@example.com", "password": "kopi-susu-123"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec, memberCookie)

	rec = e.request(t, http.MethodGet, "/members/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sari", decode[domain.MemberView](t, rec).Data.FullName)
}

func TestRateLimit(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.Config) {
		cfg.RateLimit.RPS = 0.001
		cfg.RateLimit.Burst = 1
	})

	review := map[string]any{"customerName": "Budi", "rating": 4, "comment": "Mantap"}
	rec := e.request(t, http.MethodPost, "/reviews", review)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodPost, "/reviews", review)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reads are not limited
	rec = e.request(t, http.MethodGet, "/reviews", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteBaristaDropsRota(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.loginAdmin(t)

	rec := e.request(t, http.MethodPut, "/admin/schedules", map[string]string{
		"baristaId": "barista-2", "date": "2026-11-02", "shift": "Morning",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(t, http.MethodDelete, "/admin/baristas/barista-2", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := e.store.Snapshot()
	assert.Len(t, snapshot.Baristas, 1)
	assert.Empty(t, snapshot.Schedules)

	rec = e.request(t, http.MethodGet, "/baristas/barista-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecovererAnswersPanics(t *testing.T) {
	e := newTestEnv(t)
	e.h.Mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := e.request(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decode[any](t, rec).Success)
}
