// Package pipeline composes the outgoing HTTP request path of the client out of
// small middlewares wrapped around a plain *http.Client.
package pipeline

import "net/http"

// Doer sends a single HTTP request. *http.Client implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

type DoerFunc func(*http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a Doer with additional behaviour.
type Middleware func(Doer) Doer

// Chain wraps base with the middlewares, the first middleware sees the request first.
func Chain(base Doer, middlewares ...Middleware) Doer {
	output := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		output = middlewares[i](output)
	}
	return output
}
