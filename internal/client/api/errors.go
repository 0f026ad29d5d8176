package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/common"
)

// Error is an application error a backend answered with a JSON body.
type Error struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return common.ErrorValidation
	default:
		return nil
	}
}

func newError(p *client.Payload) *Error {
	pr := p.Problem()
	msg := pr.Message
	if msg == "" {
		msg = pr.Error
	}
	return &Error{StatusCode: p.StatusCode, Message: msg, Body: p.Data}
}

// check folds a failed payload into the error return.
func check(p *client.Payload, err error) error {
	if err != nil {
		return err
	}
	if p.Failed() {
		return newError(p)
	}
	return nil
}
