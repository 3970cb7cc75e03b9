package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantQuery_SingleValueShape(t *testing.T) {
	var gotQuery, gotTime string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotTime = r.URL.Query().Get("time")
		fmt.Fprint(w, `{"status":"success","data":{"result":[
			{"metric":{"datname":"shop","queryid":"1"},"value":[1700000000.123,"42"]}
		]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	series, err := client.InstantQuery(context.Background(), "pgss_calls", time.Unix(1_700_000_000, 0))

	require.NoError(t, err)
	assert.Equal(t, "pgss_calls", gotQuery)
	assert.Equal(t, "1700000000", gotTime)
	require.Len(t, series, 1)
	assert.Equal(t, "shop", series[0].Labels["datname"])
	require.Len(t, series[0].Points, 1)
	assert.Equal(t, "42", series[0].Points[0].Value)
	assert.InDelta(t, 1700000000.123, series[0].Points[0].Timestamp, 0.001)
}

func TestRangeQuery_ValuesShape(t *testing.T) {
	var gotStart, gotEnd, gotStep string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		gotStep = r.URL.Query().Get("step")
		fmt.Fprint(w, `{"status":"success","data":{"result":[
			{"metric":{"relname":"orders"},"values":[[1700000000,"10"],[1700000060,"20"],[1700000120,"30"]]}
		]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	series, err := client.RangeQuery(context.Background(), "pg_table_seq_scan",
		time.Unix(1_700_000_000, 0), time.Unix(1_700_000_120, 0), time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "1700000000", gotStart)
	assert.Equal(t, "1700000120", gotEnd)
	assert.Equal(t, "60", gotStep)
	require.Len(t, series, 1)
	require.Len(t, series[0].Points, 3)
	assert.Equal(t, "20", series[0].Points[1].Value)
}

func TestQuery_NumericValuesAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{"result":[
			{"metric":{},"value":[1700000000,17.5]}
		]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	series, err := client.InstantQuery(context.Background(), "up", time.Unix(1_700_000_000, 0))

	require.NoError(t, err)
	require.Len(t, series, 1)
	require.Len(t, series[0].Points, 1)
	assert.Equal(t, "17.5", series[0].Points[0].Value)
}

func TestQuery_BackendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","data":{"result":[]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.InstantQuery(context.Background(), "up", time.Unix(1_700_000_000, 0))

	assert.Error(t, err)
}

func TestQuery_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "query timed out", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.InstantQuery(context.Background(), "up", time.Unix(1_700_000_000, 0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
