package database

import (
	"reflect"
	"testing"
)

func TestDiffKeys(t *testing.T) {
	tests := []struct {
		name         string
		current      []string
		desired      []string
		wantToAdd    []string
		wantToRemove []string
	}{
		{
			name:         "no change",
			current:      []string{"a", "b"},
			desired:      []string{"a", "b"},
			wantToAdd:    nil,
			wantToRemove: nil,
		},
		{
			name:         "add all",
			current:      nil,
			desired:      []string{"a", "b"},
			wantToAdd:    []string{"a", "b"},
			wantToRemove: nil,
		},
		{
			name:         "remove all",
			current:      []string{"a", "b"},
			desired:      nil,
			wantToAdd:    nil,
			wantToRemove: []string{"a", "b"},
		},
		{
			name:         "mixed",
			current:      []string{"a", "b", "c"},
			desired:      []string{"b", "d"},
			wantToAdd:    []string{"d"},
			wantToRemove: []string{"a", "c"},
		},
		{
			name:         "duplicate desired collapsed",
			current:      []string{"a"},
			desired:      []string{"b", "b", "a"},
			wantToAdd:    []string{"b"},
			wantToRemove: nil,
		},
		{
			name:         "both empty",
			current:      nil,
			desired:      nil,
			wantToAdd:    nil,
			wantToRemove: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := DiffKeys(tt.current, tt.desired)
			if !reflect.DeepEqual(toAdd, tt.wantToAdd) {
				t.Errorf("DiffKeys toAdd = %v, want %v", toAdd, tt.wantToAdd)
			}
			if !reflect.DeepEqual(toRemove, tt.wantToRemove) {
				t.Errorf("DiffKeys toRemove = %v, want %v", toRemove, tt.wantToRemove)
			}
		})
	}
}

func TestListOptionsNormalize(t *testing.T) {
	tests := []struct {
		name         string
		opts         ListOptions
		wantPage     int
		wantPageSize int
	}{
		{"defaults", ListOptions{}, 1, DefaultPageSize},
		{"negative page", ListOptions{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", ListOptions{Page: 2, PageSize: 500}, 2, MaxPageSize},
		{"valid untouched", ListOptions{Page: 4, PageSize: 25}, 4, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts.Normalize()
			if opts.Page != tt.wantPage {
				t.Errorf("Normalize page = %d, want %d", opts.Page, tt.wantPage)
			}
			if opts.PageSize != tt.wantPageSize {
				t.Errorf("Normalize page size = %d, want %d", opts.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestListOptionsOffset(t *testing.T) {
	opts := ListOptions{Page: 3, PageSize: 20}
	if got := opts.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
	opts = ListOptions{Page: 1, PageSize: 20}
	if got := opts.Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
}
