package client

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Payload is the unwrapped body of a response. Backends also answer
// application errors with a JSON body; those come back as a Payload too,
// with StatusCode >= 400, and the caller decides what they mean.
type Payload struct {
	StatusCode int
	Data       json.RawMessage
	Header     http.Header
	Cookies    []*http.Cookie
}

// Failed reports whether the payload is a structured application error.
func (p *Payload) Failed() bool {
	return p.StatusCode < 200 || p.StatusCode > 299
}

// Decode unmarshals Data into v. An empty body leaves v untouched.
func (p *Payload) Decode(v any) error {
	if v == nil || len(bytes.TrimSpace(p.Data)) == 0 {
		return nil
	}
	return json.Unmarshal(p.Data, v)
}

// Problem is the error body convention shared by the backends.
type Problem struct {
	Status  any    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Problem decodes Data as an error body; fields the backend did not send
// stay empty.
func (p *Payload) Problem() Problem {
	var pr Problem
	_ = json.Unmarshal(p.Data, &pr)
	return pr
}

// Cookie returns the Set-Cookie entry with the given name, or nil.
func (p *Payload) Cookie(name string) *http.Cookie {
	for _, c := range p.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
