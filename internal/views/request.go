package views

import (
	"net/url"
	"sort"
	"strings"
)

// Request identifies a desired dataset: a view name plus optional query
// parameters. Requests are immutable once built; two requests with the
// same name and parameters produce the same Key and therefore share a
// cache entry.
type Request struct {
	descriptor Descriptor
	params     map[string]string
}

// NewRequest builds a request for the named view. Parameters not listed
// in the view's descriptor are rejected so a typo cannot silently fork
// the cache key space.
func NewRequest(name string, params map[string]string) (Request, error) {
	d, err := Lookup(name)
	if err != nil {
		return Request{}, err
	}

	accepted := make(map[string]string, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		if !paramAllowed(d, k) {
			return Request{}, &UnknownParamError{View: name, Param: k}
		}
		accepted[k] = v
	}

	return Request{descriptor: d, params: accepted}, nil
}

func paramAllowed(d Descriptor, name string) bool {
	for _, p := range d.Params {
		if p == name {
			return true
		}
	}
	return false
}

// Name returns the view name.
func (r Request) Name() string {
	return r.descriptor.Name
}

// Descriptor returns the catalog entry this request targets.
func (r Request) Descriptor() Descriptor {
	return r.descriptor
}

// Param returns the value of a query parameter, or "" when unset.
func (r Request) Param(name string) string {
	return r.params[name]
}

// Key returns the canonical cache key: the view name followed by its
// parameters as k=v pairs in sorted order. Deterministic, so structurally
// equal requests always map to the same cache entry and the same
// in-flight fetch.
func (r Request) Key() string {
	if len(r.params) == 0 {
		return r.descriptor.Name
	}

	keys := make([]string, 0, len(r.params))
	for k := range r.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.descriptor.Name)
	for _, k := range keys {
		b.WriteByte('?')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.params[k])
	}
	return b.String()
}

// Path returns the URL path for the request, including the encoded query
// string: "{prefix}/{name}.json[?k=v&...]".
func (r Request) Path() string {
	path := r.descriptor.Prefix + "/" + r.descriptor.Name + ".json"
	if len(r.params) == 0 {
		return path
	}

	q := url.Values{}
	for k, v := range r.params {
		q.Set(k, v)
	}
	return path + "?" + q.Encode()
}

// UnknownParamError reports a query parameter the view does not accept.
type UnknownParamError struct {
	View  string
	Param string
}

func (e *UnknownParamError) Error() string {
	return "view " + e.View + " does not accept parameter " + e.Param
}
