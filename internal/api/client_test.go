package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/internal/session"
	"github.com/boarding-dev/placement-client/internal/state"
	"github.com/boarding-dev/placement-client/pkg/config"
	"github.com/boarding-dev/placement-client/pkg/kv"
)

func newTestSession(t *testing.T, accessToken, refreshToken string) *session.Store {
	t.Helper()
	backend, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	store := session.NewStore(context.Background(), backend, zap.NewNop())
	require.NoError(t, store.SetSession(context.Background(), models.AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         models.StudentUser{ID: "student-001", Email: "demo@boarding.dev"},
	}))
	return store
}

func newTestClient(t *testing.T, handler http.Handler, accessToken, refreshToken string) (*Client, *session.Store, *state.UIState) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessions := newTestSession(t, accessToken, refreshToken)
	ui := state.NewUIState()
	client := New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, sessions, ui, zap.NewNop())
	return client, sessions, ui
}

func TestGetDecodesEnvelopeAndBarePayloads(t *testing.T) {
	type widget struct {
		Name string `json:"name"`
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/enveloped", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"name":"wrapped"}}`))
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"plain"}`))
	})

	client, _, _ := newTestClient(t, mux, "token", "refresh")

	var out widget
	require.NoError(t, client.Get(context.Background(), "/enveloped", nil, &out))
	require.Equal(t, "wrapped", out.Name)

	require.NoError(t, client.Get(context.Background(), "/bare", nil, &out))
	require.Equal(t, "plain", out.Name)
}

func TestGetAttachesBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	client, _, _ := newTestClient(t, handler, "secret-token", "refresh")
	require.NoError(t, client.Get(context.Background(), "/anything", nil, nil))
	require.Equal(t, "Bearer secret-token", gotAuth)
}

func TestSingleFlightRefresh(t *testing.T) {
	const (
		workers      = 8
		staleToken   = "stale-token"
		freshToken   = "fresh-token"
		freshRefresh = "fresh-refresh"
	)

	var refreshCalls atomic.Int32
	var arrivals atomic.Int32
	released := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+freshToken {
			w.Write([]byte(`{"data":{"ok":true}}`))
			return
		}
		// hold every stale request until the whole batch has arrived so
		// the 401s land together
		if arrivals.Add(1) == workers {
			close(released)
		}
		<-released
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var payload models.RefreshPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "old-refresh", payload.RefreshToken)

		// give every parked 401 time to queue as a waiter
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(models.AuthTokens{AccessToken: freshToken, RefreshToken: freshRefresh})
	})

	client, sessions, ui := newTestClient(t, mux, staleToken, "old-refresh")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				OK bool `json:"ok"`
			}
			errs[i] = client.Get(context.Background(), "/protected", nil, &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	require.Equal(t, int32(1), refreshCalls.Load(), "refresh must run once for the whole batch")
	require.Equal(t, freshToken, sessions.AccessToken())
	require.Equal(t, freshRefresh, sessions.RefreshToken())
	require.Equal(t, 0, ui.Pending(), "busy counter must return to zero")
}

func TestRefreshNotifiesWaitersInArrivalOrder(t *testing.T) {
	const freshToken = "fresh-token"
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+freshToken {
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(models.AuthTokens{AccessToken: freshToken, RefreshToken: "fresh-refresh"})
	})

	client, _, _ := newTestClient(t, mux, "stale", "old-refresh")

	winnerDone := make(chan error, 1)
	go func() {
		winnerDone <- client.Get(context.Background(), "/protected", nil, nil)
	}()

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.refreshing
	}, 2*time.Second, 5*time.Millisecond, "winner must mark the refresh in flight")

	// park waiters in a known arrival order; unbuffered channels force the
	// drain to hand each waiter its token before moving to the next, so an
	// out-of-order drain deadlocks against the sequential collector below
	parked := make([]chan string, 5)
	client.mu.Lock()
	for i := range parked {
		parked[i] = make(chan string)
		client.waiters = append(client.waiters, parked[i])
	}
	client.mu.Unlock()

	received := make([]string, 0, len(parked))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for _, waiter := range parked {
			received = append(received, <-waiter)
		}
	}()

	close(release)

	select {
	case <-collected:
	case <-time.After(2 * time.Second):
		t.Fatal("waiters were not notified in arrival order")
	}
	require.Len(t, received, len(parked))
	for i, token := range received {
		require.Equal(t, freshToken, token, "waiter %d", i)
	}
	require.NoError(t, <-winnerDone)
}

func TestRefreshFailureRejectsAllWaitersAndClearsSession(t *testing.T) {
	const workers = 4

	var arrivals atomic.Int32
	released := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		if arrivals.Add(1) == workers {
			close(released)
		}
		<-released
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"refresh token expired"}`))
	})

	client, sessions, ui := newTestClient(t, mux, "stale", "dead-refresh")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/protected", nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.Error(t, err, "request %d", i)
	}
	require.False(t, sessions.Current().Active(), "session must be cleared after refresh failure")
	require.Equal(t, 0, ui.Pending())
}

func TestUnauthorizedWithoutRefreshTokenClearsSession(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	client, sessions, _ := newTestClient(t, mux, "stale", "")

	err := client.Get(context.Background(), "/protected", nil, nil)
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, int32(0), refreshCalls.Load(), "refresh must not be attempted without a refresh token")
	require.False(t, sessions.Current().Active())
}

func TestRetryAfterRefreshIsNotRetriedTwice(t *testing.T) {
	var protectedCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		protectedCalls.Add(1)
		// keep rejecting even the refreshed token
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.AuthTokens{AccessToken: "fresh", RefreshToken: "fresh-refresh"})
	})

	client, _, ui := newTestClient(t, mux, "stale", "old-refresh")

	err := client.Get(context.Background(), "/protected", nil, nil)
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, int32(2), protectedCalls.Load(), "exactly one retry per request")
	require.Equal(t, 0, ui.Pending())
}

func TestSkipAuthRefreshBypassesRefresh(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	client, _, _ := newTestClient(t, mux, "stale", "refresh")

	err := client.Get(context.Background(), "/protected", nil, nil, SkipAuthRefresh())
	require.Error(t, err)
	require.Equal(t, int32(0), refreshCalls.Load())
}

func TestGlobalErrorChannel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/conflict", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`"Email already registered"`))
	})

	t.Run("publishes normalized message", func(t *testing.T) {
		client, _, ui := newTestClient(t, mux, "token", "refresh")
		err := client.Post(context.Background(), "/conflict", nil, nil)
		require.Error(t, err)

		message, ok := ui.ConsumeError()
		require.True(t, ok)
		require.Equal(t, "Email already registered", message)

		_, ok = ui.ConsumeError()
		require.False(t, ok, "consuming clears the error")
	})

	t.Run("opt-out suppresses publication", func(t *testing.T) {
		client, _, ui := newTestClient(t, mux, "token", "refresh")
		err := client.Post(context.Background(), "/conflict", nil, nil, SkipGlobalError())
		require.Error(t, err)

		_, ok := ui.ConsumeError()
		require.False(t, ok)
	})
}

func TestTruncatedErrorBodyIsLoggedAndStillNormalized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// declare more bytes than are written so the read aborts mid-body
		w.Header().Set("Content-Length", "64")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	core, logs := observer.New(zap.WarnLevel)
	sessions := newTestSession(t, "token", "refresh")
	ui := state.NewUIState()
	client := New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, sessions, ui, zap.New(core))

	err := client.Get(context.Background(), "/boom", nil, nil)
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusInternalServerError))
	require.Equal(t, 1, logs.FilterMessage("error response body truncated").Len())

	message, ok := ui.ConsumeError()
	require.True(t, ok)
	assert.Equal(t, "upstream exploded", message, "partial body still feeds message extraction")
}

func TestSkipGlobalLoadingKeepsCounterUntouched(t *testing.T) {
	observed := make(chan int, 8)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	client, _, ui := newTestClient(t, handler, "token", "refresh")
	ui.OnBusyChange(func(pending int) { observed <- pending })

	require.NoError(t, client.Get(context.Background(), "/quiet", nil, nil, SkipGlobalLoading()))
	require.Empty(t, observed, "skipped request must not move the busy counter")

	require.NoError(t, client.Get(context.Background(), "/loud", nil, nil))
	require.Equal(t, 1, <-observed)
	require.Equal(t, 0, <-observed)
}

func TestUploadRebuildsBodyOnRetry(t *testing.T) {
	content := []byte("resume bytes")
	var bodies [][]byte

	mux := http.NewServeMux()
	mux.HandleFunc("/students/profile/resume", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("resume")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		assert.Equal(t, "cv.pdf", header.Filename)

		data, err := io.ReadAll(file)
		assert.NoError(t, err)
		bodies = append(bodies, data)

		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":{}}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.AuthTokens{AccessToken: "fresh", RefreshToken: "fresh-refresh"})
	})

	client, _, _ := newTestClient(t, mux, "stale", "old-refresh")

	require.NoError(t, client.Upload(context.Background(), "/students/profile/resume", "resume", "cv.pdf", content, nil))
	require.Len(t, bodies, 2, "401 then retried upload")
	require.Equal(t, content, bodies[0])
	require.Equal(t, content, bodies[1], "retry must carry the full file again")
}

// A request that left with the old token while a refresh was settling can
// still come back 401 and trigger a second refresh. That window is
// accepted: the second refresh succeeds on its own and the store ends up
// holding the newest pair.
func TestRedundantRefreshSettlesConsistently(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		n := refreshCalls.Add(1)
		json.NewEncoder(w).Encode(models.AuthTokens{
			AccessToken:  "fresh-" + string(rune('0'+n)),
			RefreshToken: "refresh-" + string(rune('0'+n)),
		})
	})

	client, sessions, _ := newTestClient(t, mux, "stale", "old-refresh")

	require.NoError(t, client.Get(context.Background(), "/protected", nil, nil))
	require.Equal(t, int32(1), refreshCalls.Load())

	// simulate a laggard that was dispatched with the stale token
	require.NoError(t, sessions.UpdateTokens(context.Background(), "stale", "refresh-1"))
	require.NoError(t, client.Get(context.Background(), "/protected", nil, nil))

	require.Equal(t, int32(2), refreshCalls.Load())
	require.Equal(t, "fresh-2", sessions.AccessToken())
	require.Equal(t, "refresh-2", sessions.RefreshToken())
}
