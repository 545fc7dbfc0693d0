// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/log"
)

type record struct {
	msg string
	ctx []any
}

// mockLogger collects the records instead of writing them.
type mockLogger struct {
	records []record
}

func (m *mockLogger) With(...any) log.Logger       { return m }
func (m *mockLogger) Trace(msg string, ctx ...any) {}
func (m *mockLogger) Debug(msg string, ctx ...any) {}
func (m *mockLogger) Info(msg string, ctx ...any)  { m.records = append(m.records, record{msg, ctx}) }
func (m *mockLogger) Warn(msg string, ctx ...any)  { m.records = append(m.records, record{msg, ctx}) }
func (m *mockLogger) Error(msg string, ctx ...any) {}
func (m *mockLogger) Crit(msg string, ctx ...any)  {}

func TestRequestLoggerHandler(t *testing.T) {
	logger := &mockLogger{}

	var seen string
	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = string(body)
		w.WriteHeader(http.StatusOK)
	}), logger)

	req := httptest.NewRequest(http.MethodPost, "/pools/main/deposit?x=1", strings.NewReader(`{"amount":"1"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"amount":"1"}`, seen)
	if assert.Len(t, logger.records, 1) {
		rec := logger.records[0]
		assert.Equal(t, "API Request", rec.msg)
		assert.Contains(t, rec.ctx, "/pools/main/deposit?x=1")
		assert.Contains(t, rec.ctx, http.MethodPost)
		assert.Contains(t, rec.ctx, `{"amount":"1"}`)
	}
}
