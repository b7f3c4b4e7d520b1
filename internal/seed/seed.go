// Package seed fills the shop data with defaults, random records or a menu
// exported as CSV.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

const defaultImage = "https://placehold.co/600x400.png"

// MenuColumns is the header a menu CSV must carry, in any order. The image
// column may be left out.
var MenuColumns = []string{"name", "description", "price", "category", "image"}

// ParseMenuCSV reads menu items from r. Rows that cannot be parsed are
// skipped and logged, a bad header fails the whole file.
func ParseMenuCSV(r io.Reader) ([]domain.MenuItem, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, header := range headers {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, column := range MenuColumns {
		if _, ok := index[column]; !ok && column != "image" {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	field := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []domain.MenuItem
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		price, err := strconv.ParseFloat(field(row, "price"), 64)
		if err != nil || price <= 0 {
			slog.Warn("skipping menu row with invalid price", "line", line, "price", field(row, "price"))
			continue
		}

		item := domain.MenuItem{
			ID:          utils.NewID("menu"),
			Name:        field(row, "name"),
			Description: field(row, "description"),
			Price:       price,
			Category:    field(row, "category"),
			Image:       field(row, "image"),
		}
		if item.Name == "" || item.Category == "" {
			slog.Warn("skipping menu row without name or category", "line", line)
			continue
		}
		if item.Image == "" {
			item.Image = defaultImage
		}
		items = append(items, item)
	}

	return items, nil
}

// ImportMenuCSV adds the items of the CSV file at path to the menu. Items
// whose name already exists are updated in place and unknown categories are
// created. It returns how many rows were added and updated.
func ImportMenuCSV(st *store.Store, path string) (added, updated int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	items, err := ParseMenuCSV(file)
	if err != nil {
		return 0, 0, err
	}

	err = st.Mutate(func(s *domain.Snapshot) error {
		for _, item := range items {
			if !slices.Contains(s.Categories, item.Category) {
				s.Categories = append(s.Categories, item.Category)
			}

			i := slices.IndexFunc(s.MenuItems, func(m domain.MenuItem) bool {
				return strings.EqualFold(m.Name, item.Name)
			})
			if i < 0 {
				s.MenuItems = append(s.MenuItems, item)
				added++
				continue
			}
			item.ID = s.MenuItems[i].ID
			s.MenuItems[i] = item
			updated++
		}
		return nil
	})
	return added, updated, err
}

// AddRandom inserts n random menu items and n random reviews.
func AddRandom(st *store.Store, n int, now time.Time) error {
	return st.Mutate(func(s *domain.Snapshot) error {
		for range n {
			s.MenuItems = append(s.MenuItems, utils.GenerateRandomMenuItem(s.Categories))
			s.Reviews = append([]domain.Review{utils.GenerateRandomReview(now)}, s.Reviews...)
		}
		return nil
	})
}

// Reset replaces everything with the data of a fresh installation.
func Reset(st *store.Store, now time.Time) error {
	return st.Replace(domain.DefaultSnapshot(now))
}
