package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"complaint_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentIdenticalGETsShareOneRoundTrip(t *testing.T) {
	var hits int32
	started := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			close(started)
		}
		<-release
		json.NewEncoder(w).Encode(map[string]any{
			"data": []model.Category{{ID: 1, Name: "Roads"}},
		})
	})

	client, _ := newTestClient(t, handler)

	var wg sync.WaitGroup
	results := make([][]model.Category, 3)
	errs := make([]error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = client.ListCategories(context.Background())
	}()
	<-started

	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = client.ListCategories(context.Background())
		}(i)
	}
	// Give the followers time to join the in-flight call before it completes
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < 3; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
		assert.Equal(t, "Roads", results[i][0].Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestPOSTsAreNeverCoalesced(t *testing.T) {
	var hits int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": model.Complaint{ID: int64(atomic.LoadInt32(&hits))}})
	})

	client, _ := newTestClient(t, handler)
	req := SubmitComplaintRequest{Title: "x", Description: "y", CategoryID: 1}

	_, err := client.Submit(context.Background(), req)
	require.NoError(t, err)
	_, err = client.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
