package pagination

import (
	"net/url"
	"strconv"
)

// PerPage is the fixed admin listing page size.
const PerPage = 10

type Links struct {
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last"`
}

type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int   `json:"total"`
	LastPage int   `json:"last_page"`
	Links    Links `json:"links"`
}

// NormalizePage clamps anything below 1 to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func Offset(page int) int {
	return (NormalizePage(page) - 1) * PerPage
}

// ParsePage reads ?page=, defaulting to 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return NormalizePage(n)
}

// New builds the pagination block. filters are the applied query filters;
// every link carries them so navigating pages keeps the filtered view.
func New(path string, page, total int, filters url.Values) Pagination {
	page = NormalizePage(page)
	last := (total + PerPage - 1) / PerPage
	if last < 1 {
		last = 1
	}

	p := Pagination{
		Page:     page,
		PerPage:  PerPage,
		Total:    total,
		LastPage: last,
		Links: Links{
			First: link(path, 1, filters),
			Last:  link(path, last, filters),
		},
	}
	if page > 1 {
		p.Links.Prev = link(path, page-1, filters)
	}
	if page < last {
		p.Links.Next = link(path, page+1, filters)
	}
	return p
}

func link(path string, page int, filters url.Values) string {
	q := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}
