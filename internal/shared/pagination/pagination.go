// Package pagination implements page-number pagination over a counted
// result set: a fixed page size, a "page" query parameter, and absolute
// next/previous links derived from the incoming request URL.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"

	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/response"
)

const (
	DefaultPageSize = 10
	PageQueryParam  = "page"
)

var ErrInvalidPage = apperror.New(apperror.CodeNotFound, "Invalid page.", http.StatusNotFound)

type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows to skip before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// FromRequest reads the page number from r. A missing parameter means page 1;
// anything that is not a positive integer is rejected.
func FromRequest(r *http.Request, size int) (Page, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	raw := r.URL.Query().Get(PageQueryParam)
	if raw == "" {
		return Page{Number: 1, Size: size}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Page{}, ErrInvalidPage
	}
	return Page{Number: n, Size: size}, nil
}

// Validate rejects pages past the end. Page 1 is always valid, even when
// the result set is empty.
func (p Page) Validate(total int64) error {
	if p.Number == 1 {
		return nil
	}
	if int64(p.Offset()) >= total {
		return ErrInvalidPage
	}
	return nil
}

// Meta builds the pagination meta, including next/previous links, for r.
func Meta(r *http.Request, p Page, total int64) response.PaginationMeta {
	meta := response.NewPaginationMeta(total, p.Number, p.Size)

	if int64(p.Number*p.Size) < total {
		next := pageURL(r, p.Number+1)
		meta.Next = &next
	}
	if p.Number > 1 {
		prev := pageURL(r, p.Number-1)
		meta.Previous = &prev
	}
	return meta
}

func pageURL(r *http.Request, number int) string {
	u := url.URL{
		Scheme: scheme(r),
		Host:   r.Host,
		Path:   r.URL.Path,
	}
	q := r.URL.Query()
	if number == 1 {
		q.Del(PageQueryParam)
	} else {
		q.Set(PageQueryParam, strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func scheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
