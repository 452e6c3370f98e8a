package slotsclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june1 = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"has_availability":true,"slots":[
			{"start_date":"01 Jun 2026","start_time":"18:00","end_date":"02 Jun 2026","end_time":"03:00","crosses_midnight":true,"duration":"9h","duration_hours":9}
		]}`))
	}))
	defer srv.Close()

	slots, err := New(srv.URL+"/", time.Second).Fetch(context.Background(), june1, 12)

	require.NoError(t, err)
	assert.Equal(t, "/booking/slots/2026-06-01/", gotPath)
	assert.Equal(t, "exclude=12", gotQuery)
	require.Len(t, slots, 1)
	assert.Equal(t, "18:00", slots[0].StartTime.String())
	assert.True(t, slots[0].CrossesMidnight)
	assert.Equal(t, "02 Jun 2026", slots[0].EndDate)
}

func TestClient_FetchFullyBooked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"success":true,"has_availability":false,"slots":[]}`))
	}))
	defer srv.Close()

	slots, err := New(srv.URL, time.Second).Fetch(context.Background(), june1, 0)

	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestClient_ServerErrors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		msg    string
	}{
		{"success false", http.StatusOK, `{"success":false,"error":"Invalid date format"}`, "Invalid date format"},
		{"bad request", http.StatusBadRequest, `{"success":false,"error":"Invalid date format"}`, "Invalid date format"},
		{"html 500", http.StatusInternalServerError, `<html>oops</html>`, "status 500"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second).Fetch(context.Background(), june1, 0)

			var serr *ServerError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tc.status, serr.StatusCode)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestClient_NetworkErrors(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second).Fetch(context.Background(), june1, 0)
		var nerr *NetworkError
		assert.ErrorAs(t, err, &nerr)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := New(addr, time.Second).Fetch(context.Background(), june1, 0)
		var nerr *NetworkError
		assert.ErrorAs(t, err, &nerr)
		assert.NotNil(t, errors.Unwrap(err))
	})
}
