package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kopimi-kafe/backend/internal/domain"
)

// NewID returns a collision-free identifier such as "menu-3f2a...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

var commonFirstNames = []string{
	"Budi", "Sari", "Agus", "Dewi", "Rizky", "Putri", "Andi", "Ayu", "Fajar", "Indah",
	"Yoga", "Nanda", "Bayu", "Wulan", "Dimas", "Rina", "Eko", "Maya", "Hendra", "Lestari",
}

var commonLastNames = []string{
	"Santoso", "Wijaya", "Saputra", "Pratama", "Hidayat", "Kusuma", "Nugroho", "Lestari",
}

func GenerateRandomName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	if rand.Intn(2) == 0 {
		return first
	}
	return first + " " + commonLastNames[rand.Intn(len(commonLastNames))]
}

var drinkBases = []string{"Kopi Susu", "Cappuccino", "Americano", "Matcha Latte", "Es Kopi", "Mocha", "Teh Tarik", "Cold Brew"}
var drinkFlavours = []string{"Gula Aren", "Pandan", "Caramel", "Hazelnut", "Vanilla", "Kelapa", "Rum", "Original"}

var reviewComments = []string{
	"Kopinya enak banget, pasti balik lagi!",
	"Tempatnya nyaman buat kerja.",
	"Pelayanannya ramah, harga bersahabat.",
	"Croissant-nya renyah, kopi susunya mantap.",
	"Agak ramai di akhir pekan, tapi worth it.",
	"Latte art-nya cantik sekali.",
}

// GenerateRandomMenuItem picks a drink and prices it between 2.00 and 7.00.
func GenerateRandomMenuItem(categories []string) domain.MenuItem {
	category := "Coffee"
	if len(categories) > 0 {
		category = categories[rand.Intn(len(categories))]
	}

	name := drinkBases[rand.Intn(len(drinkBases))] + " " + drinkFlavours[rand.Intn(len(drinkFlavours))]
	cents := 200 + rand.Intn(101)*5

	return domain.MenuItem{
		ID:          NewID("menu"),
		Name:        name,
		Description: fmt.Sprintf("House %s made to order.", name),
		Price:       float64(cents) / 100,
		Category:    category,
		Image:       "https://placehold.co/600x400.png",
	}
}

// GenerateRandomReview writes a review dated within the last 30 days.
func GenerateRandomReview(now time.Time) domain.Review {
	daysAgo := time.Duration(rand.Intn(30)) * 24 * time.Hour
	return domain.Review{
		ID:           NewID("review"),
		CustomerName: GenerateRandomName(),
		Rating:       rand.Intn(3) + 3,
		Comment:      reviewComments[rand.Intn(len(reviewComments))],
		Date:         now.Add(-daysAgo).UTC().Format(time.RFC3339),
	}
}
