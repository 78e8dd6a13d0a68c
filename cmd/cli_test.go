package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail     = "ana@example.com"
	testAccessKey = "key-123"
	testToken     = "tok-1"
)

type fakeBackend struct {
	mu sync.Mutex

	rejectToken  bool
	costsStatus  int
	prompts      []string
	creates      int
	messages     []map[string]any
	saved        []map[string]any
	logouts      int
	nextRunID    int64
	nextMessage  int64
	conversation int64
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()

	backend := &fakeBackend{nextRunID: 100, nextMessage: 500, conversation: 41}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != testEmail || body["access_key"] != testAccessKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"access_token": testToken, "token_type": "bearer", "expires_in_seconds": 3600})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		backend.logouts++
		backend.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /me/context", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"profile":            map[string]any{"user_id": 7, "email": testEmail, "roles": []string{"admin"}},
			"global_permissions": map[string]any{"user_id": 7, "roles": []string{"admin"}, "can_access_platform": true},
			"projects": []map[string]any{
				{"project_id": 3, "project_key": "ACME", "project_name": "Acme launch", "lifecycle_status": "active", "member_role": "owner", "updated_at": "2026-05-01T10:00:00Z"},
			},
		})
	}))
	mux.HandleFunc("GET /me/dashboard", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"user_id":      7,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
			"kpis":         map[string]any{"projects_count": 1, "blocked_stages_count": 2, "cost_usd_total_30d": 12.5},
			"projects": []map[string]any{
				{"project_id": 3, "project_key": "ACME", "project_name": "Acme launch", "lifecycle_status": "active", "member_role": "owner", "updated_at": "2026-05-01T10:00:00Z"},
			},
		})
	}))
	mux.HandleFunc("GET /costs/summary", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		status := backend.costsStatus
		backend.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, map[string]any{
			"days":             30,
			"total_cost_usd":   4,
			"total_runs_count": 3,
			"by_provider":      []map[string]any{{"provider": "openai", "total_cost_usd": 4, "runs_count": 3}},
		})
	}))
	mux.HandleFunc("POST /ai/text/generate", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		backend.mu.Lock()
		prompt, _ := body["prompt"].(string)
		backend.prompts = append(backend.prompts, prompt)
		backend.nextRunID++
		runID := backend.nextRunID
		backend.mu.Unlock()

		writeJSON(w, map[string]any{
			"run_id":             runID,
			"provider":           "openai",
			"model_name":         "gpt-4.1-mini",
			"text":               fmt.Sprintf("reply %d", runID),
			"token_input_count":  10,
			"token_output_count": 5,
			"cost_usd":           0.002,
		})
	}))
	mux.HandleFunc("POST /ia/conversations", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		backend.creates++
		id := backend.conversation
		backend.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"conversation_id": id})
	}))
	mux.HandleFunc("POST /ia/conversations/{id}/messages", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		backend.mu.Lock()
		backend.nextMessage++
		id := backend.nextMessage
		body["message_id"] = id
		backend.messages = append(backend.messages, body)
		backend.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"message_id": id})
	}))
	mux.HandleFunc("POST /ia/messages/{id}/save", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		backend.mu.Lock()
		var content string
		for _, message := range backend.messages {
			if fmt.Sprint(message["message_id"]) == r.PathValue("id") {
				content, _ = message["content"].(string)
			}
		}
		record := map[string]any{
			"saved_output_id":    len(backend.saved) + 1,
			"conversation_id":    backend.conversation,
			"message_id":         json.Number(r.PathValue("id")),
			"label":              body["label"],
			"notes":              body["notes"],
			"created_by_user_id": 7,
			"created_at":         "2026-05-02T09:00:00Z",
			"project_id":         3,
			"agent_id":           9,
			"provider":           "openai",
			"model_name":         "gpt-4.1-mini",
			"content":            content,
		}
		backend.saved = append([]map[string]any{record}, backend.saved...)
		backend.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, record)
	}))
	mux.HandleFunc("GET /ia/saved-outputs", backend.authorized(func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		writeJSON(w, append([]map[string]any{}, backend.saved...))
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return backend, server
}

func (b *fakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		reject := b.rejectToken
		b.mu.Unlock()
		if reject || r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) set(fn func(*fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func TestWhoamiWithoutLoginIsAnonymous(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "status: anonymous")
}

func TestLoginWhoamiLogout(t *testing.T) {
	home := t.TempDir()
	backend, server := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, server.URL, "login", "--email", testEmail, "--access-key", testAccessKey)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as "+testEmail)

	stdout, _, err = executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "status: authenticated")
	assert.Contains(t, stdout, "email: "+testEmail)
	assert.Contains(t, stdout, "roles: admin")
	assert.Contains(t, stdout, "Acme launch")

	stdout, _, err = executeCLI(t, home, server.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")
	backend.set(func(b *fakeBackend) {
		assert.Equal(t, 1, b.logouts)
	})

	stdout, _, err = executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "status: anonymous")
}

func TestLoginAccessKeyFromStdin(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	stdout, _, err := executeCLIWithInput(t, home, server.URL, testAccessKey+"\n", "login", "--email", testEmail, "--access-key-stdin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as "+testEmail)
}

func TestLoginRejectionLeavesSessionAnonymous(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	_, _, err := executeCLI(t, home, server.URL, "login", "--email", testEmail, "--access-key", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login: insufficient permission")

	stdout, _, err := executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "status: anonymous")
}

func TestLogoutWithoutSession(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, server.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No active session; local state cleared")
}

func TestDashboardRequiresLogin(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	_, _, err := executeCLI(t, home, server.URL, "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestDashboardRendersAllSources(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)
	login(t, home, server.URL)

	stdout, _, err := executeCLI(t, home, server.URL, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Operations Console")
	assert.Contains(t, stdout, "user: "+testEmail+" (admin)")
	assert.Contains(t, stdout, "Acme launch (ACME)")
	assert.Contains(t, stdout, "Costs (last 30 days)")
	assert.NotContains(t, stdout, "partial view loaded")
}

func TestDashboardShowsPartialViewWhenOneSourceFails(t *testing.T) {
	home := t.TempDir()
	backend, server := newFakeBackend(t)
	login(t, home, server.URL)
	backend.set(func(b *fakeBackend) { b.costsStatus = http.StatusInternalServerError })

	stdout, _, err := executeCLI(t, home, server.URL, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, stdout, "partial view loaded. Costs: server unavailable (500)")
	assert.Contains(t, stdout, "Costs unavailable.")
	assert.Contains(t, stdout, "Acme launch (ACME)")
}

func TestDashboardJSONReportsSourceStatus(t *testing.T) {
	home := t.TempDir()
	backend, server := newFakeBackend(t)
	login(t, home, server.URL)
	backend.set(func(b *fakeBackend) { b.costsStatus = http.StatusNotFound })

	stdout, _, err := executeCLI(t, home, server.URL, "dashboard", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var payload struct {
		Status    map[string]string `json:"status"`
		Message   string            `json:"message"`
		Dashboard json.RawMessage   `json:"dashboard"`
		Costs     json.RawMessage   `json:"costs"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "ok", payload.Status["context"])
	assert.Equal(t, "ok", payload.Status["dashboard"])
	assert.Equal(t, "error", payload.Status["costs"])
	assert.Contains(t, payload.Message, "Costs: endpoint not found")
	assert.NotEmpty(t, payload.Dashboard)
	assert.Empty(t, payload.Costs)
}

func TestDashboardKeepsLastCostsAcrossRunsWhenCostsFail(t *testing.T) {
	home := t.TempDir()
	backend, server := newFakeBackend(t)
	login(t, home, server.URL)

	_, _, err := executeCLI(t, home, server.URL, "dashboard", "--json")
	require.NoError(t, err)
	snapshotPath := filepath.Join(home, ".opsc", "dashboard.toml")
	require.FileExists(t, snapshotPath)

	backend.set(func(b *fakeBackend) { b.costsStatus = http.StatusInternalServerError })
	stdout, _, err := executeCLI(t, home, server.URL, "dashboard", "--json")
	require.NoError(t, err)

	var payload struct {
		Status  map[string]string `json:"status"`
		Message string            `json:"message"`
		Costs   struct {
			TotalRunsCount int64 `json:"total_runs_count"`
		} `json:"costs"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "error", payload.Status["costs"])
	assert.Equal(t, "ok", payload.Status["dashboard"])
	assert.Contains(t, payload.Message, "Costs: server unavailable (500)")
	assert.Equal(t, int64(3), payload.Costs.TotalRunsCount)

	stdout, _, err = executeCLI(t, home, server.URL, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[stale]")
	assert.NotContains(t, stdout, "Costs unavailable.")

	_, _, err = executeCLI(t, home, server.URL, "logout")
	require.NoError(t, err)
	assert.NoFileExists(t, snapshotPath)
}

func TestDashboardAuthFailureEndsSession(t *testing.T) {
	home := t.TempDir()
	backend, server := newFakeBackend(t)
	login(t, home, server.URL)
	backend.set(func(b *fakeBackend) { b.rejectToken = true })

	_, _, err := executeCLI(t, home, server.URL, "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")

	backend.set(func(b *fakeBackend) { b.rejectToken = false })
	stdout, _, err := executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "status: anonymous")
}

func TestChatSendAndPromoteCreatesOneConversation(t *testing.T) {
	home := t.TempDir()
	backend, server := newFakeBackend(t)
	login(t, home, server.URL)

	stdout, _, err := executeCLI(t, home, server.URL, "chat", "use", "--project", "3", "--agent", "9")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Context: project 3 / agent 9")

	stdout, _, err = executeCLI(t, home, server.URL, "chat", "send", "draft", "a", "tagline")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reply 101")

	stdout, _, err = executeCLI(t, home, server.URL, "chat", "send", "shorter")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reply 102")

	backend.set(func(b *fakeBackend) {
		require.Len(t, b.prompts, 2)
		assert.Equal(t, "draft a tagline", b.prompts[0])
		assert.Equal(t, "user: draft a tagline\nassistant: reply 101\n\nshorter", b.prompts[1])
	})

	stdout, _, err = executeCLI(t, home, server.URL, "chat", "promote", "1", "--label", "first")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"first\" (conversation 41")

	_, _, err = executeCLI(t, home, server.URL, "chat", "promote", "3", "--label", "second", "--notes", "keep")
	require.NoError(t, err)

	backend.set(func(b *fakeBackend) {
		assert.Equal(t, 1, b.creates)
		assert.Len(t, b.messages, 4)
		assert.Len(t, b.saved, 2)
	})

	stdout, _, err = executeCLI(t, home, server.URL, "chat", "show", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "draft a tagline")
	assert.Contains(t, stdout, "reply 102")

	stdout, _, err = executeCLI(t, home, server.URL, "runs", "--json")
	require.NoError(t, err)
	var runs struct {
		Runs   []map[string]any `json:"runs"`
		Totals map[string]any   `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	assert.Len(t, runs.Runs, 2)
	assert.EqualValues(t, 2, runs.Totals["total_runs_count"])
	assert.Contains(t, runs.Totals, "total_cost_usd")
	assert.NotContains(t, runs.Totals, "Runs")

	stdout, _, err = executeCLI(t, home, server.URL, "export", "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, stdout, "first")
	assert.Contains(t, stdout, "second")
	assert.Less(t, strings.Index(stdout, "second"), strings.Index(stdout, "first"))
}

func TestChatPromoteRejectsUserTurn(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)
	login(t, home, server.URL)

	_, _, err := executeCLI(t, home, server.URL, "chat", "use", "--project", "3", "--agent", "9")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, server.URL, "chat", "send", "hello")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, server.URL, "chat", "promote", "0", "--label", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only assistant turns can be promoted")
}

func TestChatSendRequiresLogin(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	_, _, err := executeCLI(t, home, server.URL, "chat", "send", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestChatClearKeepsContext(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)
	login(t, home, server.URL)

	_, _, err := executeCLI(t, home, server.URL, "chat", "use", "--project", "3", "--agent", "9")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, server.URL, "chat", "send", "hello")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, server.URL, "chat", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "History cleared")

	stdout, _, err = executeCLI(t, home, server.URL, "chat", "show", "--plain")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "hello")
	assert.Contains(t, stdout, "project 3")
}

func TestRunsEmptyLedger(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, server.URL, "runs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	home := t.TempDir()
	_, server := newFakeBackend(t)
	login(t, home, server.URL)

	_, _, err := executeCLI(t, home, server.URL, "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func login(t *testing.T, home, baseURL string) {
	t.Helper()
	_, _, err := executeCLI(t, home, baseURL, "login", "--email", testEmail, "--access-key", testAccessKey)
	require.NoError(t, err)
}

func executeCLI(t *testing.T, home, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, baseURL, "", args...)
}

func executeCLIWithInput(t *testing.T, home, baseURL, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("OPSC_API_BASE_URL", baseURL)
	t.Setenv("OPSC_SECRETS_BACKEND", "file")

	root, app := buildRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(append([]string{"-q"}, args...))

	err := root.Execute()
	if app != nil {
		app.shutdown()
	}
	return stdout.String(), stderr.String(), err
}
