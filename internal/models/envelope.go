package models

import (
	"bytes"
	"encoding/json"
)

// Envelope is the wrapper the backend puts around every JSON response.
type Envelope[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *T                `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// UnmarshalJSON also accepts a bare array. Some listings are only paginated when
// a page is requested, the array is then treated as the single page.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		items := []T{}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.Data = items
		p.Pagination = Pagination{Page: 1, Limit: len(items), Total: len(items), TotalPages: 1}
		return nil
	}
	var page struct {
		Data       []T        `json:"data"`
		Pagination Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	p.Data = page.Data
	p.Pagination = page.Pagination
	return nil
}

// Count is returned by bulk operations and counters.
type Count struct {
	Count int `json:"count"`
}

// CatalogFilter selects entries of the small reference listings (classes,
// categories, media types, achievements).
type CatalogFilter struct {
	Page     int
	Limit    int
	Search   string
	IsActive *bool
}
