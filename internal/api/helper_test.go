package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/api"
	"github.com/classtrack/classtrack/internal/ws"
)

const (
	testSecret     = "test-secret"
	testAdminEmail = "admin@classtrack.test"
	testTokenTTL   = time.Hour
)

type testEnv struct {
	router     *gin.Engine
	users      *fakeUserRepo
	classrooms *fakeClassroomRepo
	tasks      *fakeTaskRepo
	messages   *fakeMessageRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newFakeUserRepo()
	messages := newFakeMessageRepo()
	tasks := newFakeTaskRepo(users)
	classrooms := newFakeClassroomRepo(users, tasks, messages)

	hub := ws.NewHub(messages, nil, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	router := api.NewRouter(api.Deps{
		Auth:       api.NewAuthHandler(users, testSecret, testTokenTTL, testAdminEmail, logger),
		Classrooms: api.NewClassroomHandler(classrooms, logger),
		Tasks:      api.NewTaskHandler(tasks, logger),
		Messages:   api.NewMessageHandler(messages, logger),
		Admin:      api.NewAdminHandler(users, classrooms, tasks, messages, logger),
		Hub:        hub,

		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logger,
	})

	return &testEnv{
		router:     router,
		users:      users,
		classrooms: classrooms,
		tasks:      tasks,
		messages:   messages,
	}
}

// do runs one request through the router. body is JSON-encoded when non-nil;
// token, when set, rides in the Authorization header.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its token and
// the decoded user object.
func (e *testEnv) register(t *testing.T, name, email, role string) (string, map[string]any) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"nickname": name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}
