package gist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/remote"
	"github.com/MrJamesThe3rd/pocket/internal/remote/gist"
)

// fakeGitHub serves a single gist in memory.
type fakeGitHub struct {
	mu      sync.Mutex
	id      string
	content string
	calls   []string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	if r.Header.Get("Authorization") != "token secret" {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}

	var body struct {
		Description string `json:"description"`
		Public      *bool  `json:"public"`
		Files       map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/gists":
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Public == nil || *body.Public {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		f.id = "abc123"
		f.content = body.Files[gist.FileName].Content
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": f.id})
	case r.URL.Path == "/gists/"+f.id && f.id != "":
		if r.Method == http.MethodPatch {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}

			f.content = body.Files[gist.FileName].Content
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    f.id,
			"files": map[string]any{gist.FileName: map[string]any{"content": f.content}},
		})
	default:
		http.NotFound(w, r)
	}
}

func TestClient_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	fake := &fakeGitHub{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ids := kv.NewMemory()
	c := gist.New("secret", ids, gist.WithBaseURL(srv.URL))

	_, err := c.Fetch(ctx)
	assert.ErrorIs(t, err, remote.ErrNoSnapshot)

	snap := &remote.Snapshot{
		Records: []record.Record{{
			ID:       1,
			Kind:     record.KindExpense,
			Category: "餐饮",
			Amount:   decimal.RequireFromString("12.5"),
		}},
		LastSync: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Put(ctx, snap))

	id, err := ids.Get(ctx, kv.KeyGistID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	snap.Records = append(snap.Records, record.Record{ID: 2, Kind: record.KindIncome, Category: "工资", Amount: decimal.NewFromInt(100)})
	require.NoError(t, c.Put(ctx, snap))

	got, err := c.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, int64(2), got.Records[1].ID)

	assert.Equal(t, []string{"POST /gists", "PATCH /gists/abc123", "GET /gists/abc123"}, fake.calls)
}

func TestClient_DeletedGistIsForgotten(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()

	ids := kv.NewMemory()
	require.NoError(t, ids.Put(ctx, kv.KeyGistID, "gone"))

	c := gist.New("secret", ids, gist.WithBaseURL(srv.URL))

	_, err := c.Fetch(ctx)
	assert.ErrorIs(t, err, remote.ErrNoSnapshot)

	_, err = ids.Get(ctx, kv.KeyGistID)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestClient_Unauthorized(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()

	c := gist.New("wrong", kv.NewMemory(), gist.WithBaseURL(srv.URL))

	err := c.Put(ctx, &remote.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_CorruptContent(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(&fakeGitHub{id: "abc123", content: `{"records": "oops"}`})
	defer srv.Close()

	ids := kv.NewMemory()
	require.NoError(t, ids.Put(ctx, kv.KeyGistID, "abc123"))

	c := gist.New("secret", ids, gist.WithBaseURL(srv.URL))

	_, err := c.Fetch(ctx)
	assert.ErrorIs(t, err, remote.ErrCorruptSnapshot)
	assert.NotErrorIs(t, err, remote.ErrNoSnapshot)
}
