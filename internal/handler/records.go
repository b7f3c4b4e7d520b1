package handler

import (
	"errors"

	"github.com/kopimi-kafe/backend/internal/store"
)

var errRecordNotFound = errors.New("record not found")

func findByID[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// updateRecord rewrites the record with id in one collection. It reports
// errRecordNotFound when no such record exists, leaving the collection as is.
func updateRecord[T any](st *store.Store, key store.Key[[]T], id string, idOf func(T) string, fn func(*T)) (T, error) {
	var updated T
	found := false
	store.Update(st, key, func(items []T) []T {
		i := indexByID(items, id, idOf)
		if i < 0 {
			return items
		}
		fn(&items[i])
		updated, found = items[i], true
		return items
	})
	if !found {
		return updated, errRecordNotFound
	}
	return updated, nil
}

// deleteRecord removes the record with id from one collection.
func deleteRecord[T any](st *store.Store, key store.Key[[]T], id string, idOf func(T) string) error {
	found := false
	store.Update(st, key, func(items []T) []T {
		i := indexByID(items, id, idOf)
		if i < 0 {
			return items
		}
		found = true
		return append(items[:i], items[i+1:]...)
	})
	if !found {
		return errRecordNotFound
	}
	return nil
}

func appendRecord[T any](st *store.Store, key store.Key[[]T], item T) {
	store.Update(st, key, func(items []T) []T {
		return append(items, item)
	})
}

// prependRecord puts item first, the order newest-first lists are kept in.
func prependRecord[T any](st *store.Store, key store.Key[[]T], item T) {
	store.Update(st, key, func(items []T) []T {
		return append([]T{item}, items...)
	})
}
