package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-cms/apiserver/config"
	"github.com/inkwell-cms/apiserver/internal/mq"
	"github.com/inkwell-cms/apiserver/internal/server"
	"github.com/inkwell-cms/apiserver/types"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
	eventChannel  = "content-events"
)

// eventLog is an mq.Backend that keeps published messages in memory.
type eventLog struct {
	mu     sync.Mutex
	events []types.ContentEvent
}

func (l *eventLog) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	event, err := mq.DecodeContentEvent(mq.Message{Data: data})
	if err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return event.ContentID, nil
}

func (l *eventLog) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (l *eventLog) Close() error { return nil }

func (l *eventLog) eventTypes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	baseURL string
	events  *eventLog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Env:        "test",
		ServerPort: 0,
		Auth: config.AuthConfig{
			JWTSecret:  "e2e-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Seed: config.SeedConfig{Enabled: true, AdminPassword: adminPassword},
		Uploads: config.UploadsConfig{
			Dir:      t.TempDir(),
			MaxBytes: 64 << 10,
		},
		CORSOrigins:    []string{"http://localhost:5173"},
		StorageBackend: config.StorageLocal,
		MQBackend:      config.MQNone,
		MQChannel:      eventChannel,
	}

	events := &eventLog{}
	srv, err := server.New(context.Background(), cfg, nil, server.WithEventBackend(events))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{baseURL: ts.URL, events: events}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), "body: %s", r.body)
}

func (r response) message(t *testing.T) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	r.decode(t, &body)
	return body.Message
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: data}
}

func (e *testEnv) upload(t *testing.T, token, filename, contentType string, data []byte) response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/api/media", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(t, req)
}

func (e *testEnv) login(t *testing.T, email, password string) (string, types.User) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.status, "login: %s", resp.body)

	var body struct {
		Token string     `json:"token"`
		User  types.User `json:"user"`
	}
	resp.decode(t, &body)
	require.NotEmpty(t, body.Token)
	return body.Token, body.User
}

// register creates an account and returns its token. A non-viewer role is
// granted by the seeded admin.
func (e *testEnv) register(t *testing.T, adminToken, username, role string) (string, types.User) {
	t.Helper()
	email := username + "@example.com"
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.status, "register: %s", resp.body)

	var user types.User
	resp.decode(t, &user)
	if role != types.RoleViewer {
		resp = e.do(t, http.MethodPut, "/api/users/"+user.ID, adminToken, map[string]string{"role": role})
		require.Equal(t, http.StatusOK, resp.status, "promote: %s", resp.body)
	}
	return e.login(t, email, "password1")
}

func (e *testEnv) createContent(t *testing.T, token string, body map[string]any) types.Content {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/contents", token, body)
	require.Equal(t, http.StatusCreated, resp.status, "create content: %s", resp.body)
	var content types.Content
	resp.decode(t, &content)
	return content
}
