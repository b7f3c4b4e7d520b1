package store

import (
	"encoding/json"

	"github.com/kopimi-kafe/backend/internal/domain"
)

// Key names one collection of the snapshot and its value type.
type Key[T any] struct {
	name     string
	localKey string
	get      func(*domain.Snapshot) T
	set      func(*domain.Snapshot, T)
}

func (k Key[T]) Name() string {
	return k.name
}

// LocalKey is the per-collection key used in local mode.
func (k Key[T]) LocalKey() string {
	return k.localKey
}

// clone deep-copies v so callers never share memory with the snapshot.
func (k Key[T]) clone(v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func (k Key[T]) encode(s *domain.Snapshot) ([]byte, error) {
	return json.Marshal(k.get(s))
}

func (k Key[T]) decode(s *domain.Snapshot, data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	k.set(s, v)
	return nil
}

type collection interface {
	Name() string
	LocalKey() string
	encode(*domain.Snapshot) ([]byte, error)
	decode(*domain.Snapshot, []byte) error
}

var (
	MenuItems = Key[[]domain.MenuItem]{
		name: "menuItems", localKey: "kopimi_menu",
		get: func(s *domain.Snapshot) []domain.MenuItem { return s.MenuItems },
		set: func(s *domain.Snapshot, v []domain.MenuItem) { s.MenuItems = v },
	}
	Categories = Key[[]string]{
		name: "categories", localKey: "kopimi_categories",
		get: func(s *domain.Snapshot) []string { return s.Categories },
		set: func(s *domain.Snapshot, v []string) { s.Categories = v },
	}
	Promotions = Key[[]domain.Promotion]{
		name: "promotions", localKey: "kopimi_promos",
		get: func(s *domain.Snapshot) []domain.Promotion { return s.Promotions },
		set: func(s *domain.Snapshot, v []domain.Promotion) { s.Promotions = v },
	}
	Reviews = Key[[]domain.Review]{
		name: "reviews", localKey: "kopimi_reviews",
		get: func(s *domain.Snapshot) []domain.Review { return s.Reviews },
		set: func(s *domain.Snapshot, v []domain.Review) { s.Reviews = v },
	}
	Settings = Key[domain.ShopSettings]{
		name: "settings", localKey: "kopimi_settings",
		get: func(s *domain.Snapshot) domain.ShopSettings { return s.Settings },
		set: func(s *domain.Snapshot, v domain.ShopSettings) { s.Settings = v },
	}
	Baristas = Key[[]domain.Barista]{
		name: "baristas", localKey: "kopimi_baristas",
		get: func(s *domain.Snapshot) []domain.Barista { return s.Baristas },
		set: func(s *domain.Snapshot, v []domain.Barista) { s.Baristas = v },
	}
	Schedules = Key[[]domain.Schedule]{
		name: "schedules", localKey: "kopimi_schedules",
		get: func(s *domain.Snapshot) []domain.Schedule { return s.Schedules },
		set: func(s *domain.Snapshot, v []domain.Schedule) { s.Schedules = v },
	}
	LeaveRequests = Key[[]domain.LeaveRequest]{
		name: "leaveRequests", localKey: "kopimi_leave_requests",
		get: func(s *domain.Snapshot) []domain.LeaveRequest { return s.LeaveRequests },
		set: func(s *domain.Snapshot, v []domain.LeaveRequest) { s.LeaveRequests = v },
	}
	JobVacancies = Key[[]domain.JobVacancy]{
		name: "jobVacancies", localKey: "kopimi_jobs",
		get: func(s *domain.Snapshot) []domain.JobVacancy { return s.JobVacancies },
		set: func(s *domain.Snapshot, v []domain.JobVacancy) { s.JobVacancies = v },
	}
	CustomerMessages = Key[[]domain.CustomerMessage]{
		name: "customerMessages", localKey: "kopimi_messages",
		get: func(s *domain.Snapshot) []domain.CustomerMessage { return s.CustomerMessages },
		set: func(s *domain.Snapshot, v []domain.CustomerMessage) { s.CustomerMessages = v },
	}
	GalleryImages = Key[[]domain.GalleryImage]{
		name: "galleryImages", localKey: "kopimi_gallery",
		get: func(s *domain.Snapshot) []domain.GalleryImage { return s.GalleryImages },
		set: func(s *domain.Snapshot, v []domain.GalleryImage) { s.GalleryImages = v },
	}
	Members = Key[[]domain.Member]{
		name: "members", localKey: "kopimi_users",
		get: func(s *domain.Snapshot) []domain.Member { return s.Members },
		set: func(s *domain.Snapshot, v []domain.Member) { s.Members = v },
	}
)

var collections = []collection{
	MenuItems,
	Categories,
	Promotions,
	Reviews,
	Settings,
	Baristas,
	Schedules,
	LeaveRequests,
	JobVacancies,
	CustomerMessages,
	GalleryImages,
	Members,
}

// CollectionNames lists every collection in snapshot order.
func CollectionNames() []string {
	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c.Name()
	}
	return names
}
