package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAPI(t *testing.T) {
	ts := newTestServer(t)
	deadline := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	recorder := ts.do(t, http.MethodPost, "/v1/posts", "alice", jsonBody{
		"text":              "standing desk",
		"announcement_date": deadline.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	post := decodeBody[db.Post](t, recorder)
	assert.Equal(t, "alice", post.UserID)
	assert.Equal(t, "standing desk", post.Text)
	assert.True(t, post.Active)
	assert.True(t, deadline.Equal(post.AnnouncementDate))

	stored, err := ts.store.GetPostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestCreatePostAPI_BadRequest(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		name string
		body jsonBody
	}{
		{"missing text", jsonBody{"announcement_date": time.Now().Add(time.Hour).Format(time.RFC3339)}},
		{"missing deadline", jsonBody{"text": "desk"}},
		{"bad deadline", jsonBody{"text": "desk", "announcement_date": "tomorrow"}},
		{"blank text", jsonBody{"text": "   ", "announcement_date": time.Now().Add(time.Hour).Format(time.RFC3339)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := ts.do(t, http.MethodPost, "/v1/posts", "alice", tc.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestCreatePostAPI_Unauthenticated(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.do(t, http.MethodPost, "/v1/posts", "", jsonBody{"text": "desk"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetPostAPI(t *testing.T) {
	ts := newTestServer(t)
	post := ts.createPost(t, "alice", time.Now().Add(time.Hour))
	_, err := ts.lifecycle.PlaceBid(context.Background(), "bob", post.ID)
	require.NoError(t, err)

	recorder := ts.do(t, http.MethodGet, "/v1/posts/"+post.ID.String(), "carol", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	resp := decodeBody[postResponse](t, recorder)
	assert.Equal(t, post.ID, resp.ID)
	require.Len(t, resp.Bids, 1)
	assert.Equal(t, "bob", resp.Bids[0].UserID)

	recorder = ts.do(t, http.MethodGet, "/v1/posts/"+uuid.NewString(), "carol", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/posts/not-a-uuid", "carol", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListPostsAPI(t *testing.T) {
	ts := newTestServer(t)
	later := ts.createPost(t, "alice", time.Now().Add(2*time.Hour))
	sooner := ts.createPost(t, "bob", time.Now().Add(time.Hour))
	_, err := ts.lifecycle.PlaceBid(context.Background(), "carol", later.ID)
	require.NoError(t, err)

	recorder := ts.do(t, http.MethodGet, "/v1/posts", "carol", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	posts := decodeBody[[]postResponse](t, recorder)
	require.Len(t, posts, 2)

	byID := map[uuid.UUID]postResponse{}
	for _, p := range posts {
		byID[p.ID] = p
	}
	assert.Len(t, byID[later.ID].Bids, 1)
	assert.Empty(t, byID[sooner.ID].Bids)
}

// jsonBody is a request body in tests.
type jsonBody = map[string]any
