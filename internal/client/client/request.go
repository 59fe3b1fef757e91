package client

import (
	"net/http"
	"net/url"
	"strconv"
)

// Request describes one logical call. Idempotent marks requests that may be
// repeated blindly; Call only retries those.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Body       any
	Idempotent bool
}

func Get(path string) Request {
	return Request{Method: http.MethodGet, Path: path, Idempotent: true}
}

func Put(path string, body any) Request {
	return Request{Method: http.MethodPut, Path: path, Body: body, Idempotent: true}
}

func Delete(path string) Request {
	return Request{Method: http.MethodDelete, Path: path, Idempotent: true}
}

// Post requests are never retried.
func Post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

// With sets a query parameter; empty values are skipped.
func (r Request) With(key, value string) Request {
	if value == "" {
		return r
	}
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, value)
	r.Query = q
	return r
}

// WithInt sets a query parameter; zero values are skipped.
func (r Request) WithInt(key string, value int) Request {
	if value == 0 {
		return r
	}
	return r.With(key, strconv.Itoa(value))
}
