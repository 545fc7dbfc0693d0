// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vechain/stakepool/builtin/reverts"
)

// RevertReasonHeader carries the reason of a reverted operation.
const RevertReasonHeader = "x-revert-reason"

type httpError struct {
	cause  error
	status int
	reason reverts.Reason
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

var revertStatus = map[reverts.Reason]int{
	reverts.ZeroAmount:          http.StatusBadRequest,
	reverts.NotFound:            http.StatusNotFound,
	reverts.UnknownContract:     http.StatusNotFound,
	reverts.TooSoon:             http.StatusConflict,
	reverts.EmptyPool:           http.StatusConflict,
	reverts.NonTransferable:     http.StatusForbidden,
	reverts.InsufficientBalance: http.StatusUnprocessableEntity,
	reverts.InvalidAmount:       http.StatusBadRequest,
	reverts.Overflow:            http.StatusUnprocessableEntity,
}

// OperationError converts the error of an operation. Reverts get a status by
// reason, anything else is left as is and responded as an internal error.
func OperationError(err error) error {
	var revert *reverts.ErrRevert
	if !errors.As(err, &revert) {
		return err
	}
	status, ok := revertStatus[revert.Reason()]
	if !ok {
		status = http.StatusBadRequest
	}
	return &httpError{
		cause:  err,
		status: status,
		reason: revert.Reason(),
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if !errors.As(err, &he) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if he.reason != "" {
			w.Header().Set(RevertReasonHeader, string(he.reason))
		}
		if he.cause != nil {
			http.Error(w, he.cause.Error(), he.status)
		} else {
			w.WriteHeader(he.status)
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
