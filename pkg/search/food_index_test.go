package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recordedRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, &reqs
}

func TestBuildFoodQuery(t *testing.T) {
	q := BuildFoodQuery("  gudeg ", 20, 10)

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `"query":"gudeg"`)
	assert.Contains(t, s, `"from":20`)
	assert.Contains(t, s, `"size":10`)
	assert.Contains(t, s, `"is_active":true`)
}

func TestFoodIndex_Search(t *testing.T) {
	client, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_id":"a"},{"_id":"b"}]}}`))
	})

	idx := NewFoodIndex(client, "food_items")
	total, ids, err := idx.Search(context.Background(), "teh", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"a", "b"}, ids)

	last := (*reqs)[len(*reqs)-1]
	assert.Equal(t, "/food_items/_search", last.Path)
	assert.Contains(t, last.Body, "multi_match")
}

func TestFoodIndex_PutAndRemove(t *testing.T) {
	client, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	idx := NewFoodIndex(client, "food_items")
	require.NoError(t, idx.Put(context.Background(), FoodDocument{ID: "f1", Name: "Gudeg", IsActive: true}))
	require.NoError(t, idx.Remove(context.Background(), "f1"))

	var paths []string
	for _, r := range *reqs {
		paths = append(paths, r.Method+" "+r.Path)
	}
	joined := strings.Join(paths, ",")
	assert.Contains(t, joined, "PUT /food_items/_doc/f1")
	assert.Contains(t, joined, "DELETE /food_items/_doc/f1")
}

func TestFoodIndex_SearchError(t *testing.T) {
	client, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})

	_, _, err := NewFoodIndex(client, "food_items").Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}
