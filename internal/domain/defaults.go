package domain

import "time"

const DateLayout = "2006-01-02"

func DefaultOperatingHours() OperatingHours {
	weekday := DayHours{IsOpen: true, Open: "07:00", Close: "22:00"}
	return OperatingHours{
		Monday:    weekday,
		Tuesday:   weekday,
		Wednesday: weekday,
		Thursday:  weekday,
		Friday:    DayHours{IsOpen: true, Open: "07:00", Close: "23:00"},
		Saturday:  DayHours{IsOpen: true, Open: "08:00", Close: "23:00"},
		Sunday:    DayHours{IsOpen: true, Open: "08:00", Close: "21:00"},
	}
}

func DefaultSettings() ShopSettings {
	hours := DefaultOperatingHours()
	return ShopSettings{
		Name:           "Kopimi Kafe",
		Address:        "123 Coffee Lane, Flavor Town, 12345",
		Phone:          "555-123-4567",
		Email:          "hello@kopimikafe.com",
		Logo:           "https://placehold.co/100x100.png",
		OperatingHours: &hours,
	}
}

// DefaultSnapshot is the data a fresh installation starts with. Promotion and
// review dates are placed relative to now.
func DefaultSnapshot(now time.Time) *Snapshot {
	day := 24 * time.Hour
	stamp := func(t time.Time) string { return t.UTC().Format(time.RFC3339) }

	return &Snapshot{
		MenuItems: []MenuItem{
			{ID: "1", Name: "Espresso", Description: "Rich and aromatic single shot of espresso.", Price: 2.50, Category: "Coffee", Image: "https://placehold.co/600x400.png"},
			{ID: "2", Name: "Latte", Description: "Smooth espresso with steamed milk and a light layer of foam.", Price: 3.50, Category: "Coffee", Image: "https://placehold.co/600x400.png"},
			{ID: "3", Name: "Croissant", Description: "Buttery, flaky, and freshly baked.", Price: 2.00, Category: "Pastry", Image: "https://placehold.co/600x400.png"},
			{ID: "4", Name: "Club Sandwich", Description: "Turkey, bacon, lettuce, and tomato on toasted bread.", Price: 7.50, Category: "Sandwich", Image: "https://placehold.co/600x400.png"},
			{ID: "5", Name: "Orange Juice", Description: "Freshly squeezed orange juice.", Price: 4.00, Category: "Beverage", Image: "https://placehold.co/600x400.png"},
		},
		Categories: []string{"Coffee", "Pastry", "Sandwich", "Beverage"},
		Promotions: []Promotion{
			{
				ID:          "1",
				Title:       "Happy Hour!",
				Description: "Get 50% off on all coffee drinks from 3 PM to 5 PM.",
				Image:       "https://placehold.co/1200x600.png",
				ValidFrom:   stamp(now.Add(-2 * day)),
				ValidUntil:  stamp(now.Add(5 * day)),
			},
			{
				ID:          "2",
				Title:       "Pastry Combo",
				Description: "Buy any coffee and get a croissant for just $1.",
				Image:       "https://placehold.co/1200x600.png",
				ValidFrom:   stamp(now.Add(-10 * day)),
				ValidUntil:  stamp(now.Add(20 * day)),
			},
		},
		Reviews: []Review{
			{ID: "1", CustomerName: "Alice", Rating: 5, Comment: "The best latte in town! Cozy atmosphere too.", Date: stamp(now.Add(-3 * day)), Reply: "Thank you, Alice! We're so glad you enjoyed it."},
			{ID: "2", CustomerName: "Bob", Rating: 4, Comment: "Great coffee, but the croissants could be a bit warmer.", Date: stamp(now.Add(-7 * day))},
		},
		Settings: DefaultSettings(),
		Baristas: []Barista{
			{
				ID:            "barista-1",
				Name:          "Rina",
				Bio:           "Latte art enthusiast who has been pulling shots for six years.",
				Image:         "https://placehold.co/400x400.png",
				Instagram:     "rina.brews",
				FavoriteDrink: "Flat White",
				Skills:        []string{"Latte Art", "Manual Brew"},
			},
			{
				ID:            "barista-2",
				Name:          "Dimas",
				Bio:           "Single-origin nerd and our resident V60 specialist.",
				Image:         "https://placehold.co/400x400.png",
				Instagram:     "dimas.pourover",
				FavoriteDrink: "Kopi Tubruk",
				Skills:        []string{"V60", "Cold Brew", "Roasting"},
			},
		},
		Schedules:     []Schedule{},
		LeaveRequests: []LeaveRequest{},
		JobVacancies: []JobVacancy{
			{
				ID:          "job-1",
				Title:       "Barista",
				Description: "Join our team behind the bar. Experience with espresso machines is a plus.",
				Type:        "Full-time",
				IsActive:    true,
				PostedDate:  stamp(now.Add(-4 * day)),
			},
		},
		CustomerMessages: []CustomerMessage{},
		GalleryImages:    []GalleryImage{},
		Members:          []Member{},
	}
}
