package entity

import (
	"net/url"
	"strconv"
)

// ListFilter holds the optional list query parameters. Zero values are not sent.
type ListFilter struct {
	Search  string
	Status  string
	Source  string
	Stage   string
	Type    string
	Page    int
	PerPage int
}

// Values encodes the filter as a query string.
func (f ListFilter) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", f.Search)
	set("status", f.Status)
	set("source", f.Source)
	set("stage", f.Stage)
	set("type", f.Type)
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return v
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
