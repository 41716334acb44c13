package handlers

import (
	"fmt"
	"net/http"
	"strconv"
)

// PageEnvelope is the pagination wrapper of the sales summary feed:
// count/next/previous/results, with absolute page links.
type PageEnvelope struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func pageEnvelope(r *http.Request, page, pageSize, total int, results any) PageEnvelope {
	env := PageEnvelope{Count: total, Results: results}

	lastPage := (total + pageSize - 1) / pageSize
	if page < lastPage {
		env.Next = pageLink(r, page+1)
	}
	if page > 1 {
		env.Previous = pageLink(r, page-1)
	}
	return env
}

func pageLink(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	// keep the caller's other query parameters in the link
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	link := fmt.Sprintf("%s://%s%s?%s", scheme, r.Host, r.URL.Path, q.Encode())
	return &link
}
