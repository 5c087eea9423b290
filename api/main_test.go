package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/katatrina/postboard/internal/db/memory"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/event"
	"github.com/katatrina/postboard/internal/lifecycle"
	"github.com/katatrina/postboard/internal/notification"
	"github.com/katatrina/postboard/internal/scheduler"
	"github.com/katatrina/postboard/internal/util"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	*Server
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	config := &util.Config{
		AllowedOrigins: []string{"http://localhost:3000"},
		TokenSecretKey: "0123456789abcdef0123456789abcdef",
	}

	store := memory.NewStore()
	hub := event.NewHub(16)
	notifications := notification.NewNotificationService(store)
	service := lifecycle.NewService(store, notifications, hub, scheduler.NewTimerScheduler(time.Second))
	require.NoError(t, service.Start(context.Background()))
	t.Cleanup(service.Shutdown)

	server, err := NewServer(store, service, notifications, hub, config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	return &testServer{Server: server, store: store}
}

func (ts *testServer) accessToken(t *testing.T, userID string) string {
	t.Helper()

	accessToken, _, err := ts.tokenMaker.CreateToken(userID, time.Minute)
	require.NoError(t, err)
	return accessToken
}

// do serves one request as userID. An empty userID sends no credentials.
func (ts *testServer) do(t *testing.T, method, url, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	request, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if userID != "" {
		request.Header.Set(authorizationHeaderKey, fmt.Sprintf("%s %s", authorizationTypeBearer, ts.accessToken(t, userID)))
	}

	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, request)
	return recorder
}

func (ts *testServer) createPost(t *testing.T, authorID string, deadline time.Time) db.Post {
	t.Helper()

	post, err := ts.lifecycle.CreatePost(context.Background(), lifecycle.CreatePostParams{
		AuthorID:         authorID,
		Text:             "guitar amp",
		AnnouncementDate: deadline,
	})
	require.NoError(t, err)
	return post
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &v))
	return v
}
