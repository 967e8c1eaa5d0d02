package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptparty/internal/api"
	"promptparty/internal/factory"
	"promptparty/internal/model"
	"promptparty/internal/services/moderation"
)

const testAPIKey = "e2e-api-key"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "promptparty-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/promptparty")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--api-key", testAPIKey,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// fakeLocalizer stands in for the translation API
type fakeLocalizer struct{}

func (f *fakeLocalizer) Localize(ctx context.Context, text, source string) ([]model.LocalizedText, error) {
	if source == "" {
		source = "en"
	}
	texts := make([]model.LocalizedText, 0, len(model.SupportedLanguages))
	for _, lang := range model.SupportedLanguages {
		if lang == source {
			texts = append(texts, model.LocalizedText{Text: text, Language: lang})
			continue
		}
		texts = append(texts, model.LocalizedText{Text: fmt.Sprintf("[%s] %s", lang, text), Language: lang})
	}
	return texts, nil
}

// fakeContentSafety stands in for the moderation API
func fakeContentSafety() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/contentsafety/text:analyze", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"categoriesAnalysis": []map[string]any{
				{"category": "Hate", "severity": 0},
				{"category": "SelfHarm", "severity": 0},
				{"category": "Sexual", "severity": 0},
				{"category": "Violence", "severity": 2},
			},
		})
	})
	return httptest.NewServer(mux)
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	moderationAPI := fakeContentSafety()

	modCfg := moderation.DefaultConfig()
	modCfg.Endpoint = moderationAPI.URL
	modCfg.Key = "e2e-mod-key"

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{
		Logger:           logger,
		StorageType:      factory.StorageTypeMemory,
		Translator:       &fakeLocalizer{},
		ModerationConfig: modCfg,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		APIKey:            testAPIKey,
		PlayerService:     app.PlayerService,
		PromptService:     app.PromptService,
		ModerationService: app.ModerationService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/health?code="+testAPIKey)

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			moderationAPI.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type statusResponse struct {
	Result bool   `json:"result"`
	Msg    string `json:"msg"`
}

type verdictResponse struct {
	PromptID        string  `json:"prompt-id"`
	Outcome         bool    `json:"outcome"`
	AverageSeverity float64 `json:"average_severity"`
}

type promptResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Texts    []struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	} `json:"texts"`
	Tags []string `json:"tags"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register
	output, err := cli.run("player", "register", "--username", "alice01", "--password", "secret-pw")
	require.NoError(t, err, "output: %s", output)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Result)
	assert.Equal(t, "OK", status.Msg)

	// Login with the right password
	output, err = cli.run("player", "login", "--username", "alice01", "--password", "secret-pw")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Result)

	// Login with the wrong password still exits 0, result false
	output, err = cli.run("player", "login", "--username", "alice01", "--password", "wrong-pw1")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.False(t, status.Result)
	assert.Equal(t, "username or password incorrect", status.Msg)

	// Update counters
	output, err = cli.run("player", "update", "--username", "alice01", "--games", "3", "--score", "50")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Result)
}

func TestCLI_PromptLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--username", "alice01", "--password", "secret-pw")
	require.NoError(t, err, "output: %s", output)

	// Create a tagged prompt
	output, err = cli.run("prompt", "create",
		"--username", "alice01",
		"--text", "what is your favourite colour of sky",
		"--tags", "casual,colours")
	require.NoError(t, err, "output: %s", output)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Result)

	// Fetch it back by tag
	output, err = cli.run("get", "--players", "alice01", "--tags", "COLOURS")
	require.NoError(t, err, "output: %s", output)

	var prompts []promptResponse
	require.NoError(t, json.Unmarshal([]byte(output), &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, "alice01", prompts[0].Username)
	assert.Len(t, prompts[0].Texts, 6)
	assert.Equal(t, []string{"casual", "colours"}, prompts[0].Tags)
	promptID := prompts[0].ID

	// Moderate it
	output, err = cli.run("prompt", "moderate", promptID)
	require.NoError(t, err, "output: %s", output)

	var verdicts []verdictResponse
	require.NoError(t, json.Unmarshal([]byte(output), &verdicts))
	require.Len(t, verdicts, 1)
	assert.Equal(t, promptID, verdicts[0].PromptID)
	assert.False(t, verdicts[0].Outcome)
	assert.InDelta(t, 0.5, verdicts[0].AverageSeverity, 0.0001)

	// Delete everything the player owns
	output, err = cli.run("prompt", "delete", "--player", "alice01")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Result)
	assert.Equal(t, "1 prompts deleted", status.Msg)
}

func TestCLI_WelcomePrompt(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	// Run the welcome worker against the same app
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		_ = ts.app.WelcomeService.Run(workerCtx)
	}()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--username", "alice01", "--password", "secret-pw")
	require.NoError(t, err, "output: %s", output)

	// The worker picks the creation off the feed and generates a
	// localized welcome prompt
	require.Eventually(t, func() bool {
		prompts, err := ts.app.PromptService.FindByOwner(context.Background(), "alice01")
		return err == nil && len(prompts) == 1
	}, 5*time.Second, 100*time.Millisecond)

	prompts, err := ts.app.PromptService.FindByOwner(context.Background(), "alice01")
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Empty(t, prompts[0].Tags)
	assert.Len(t, prompts[0].Texts, 6)

	text, ok := prompts[0].TextIn("en")
	require.True(t, ok)
	assert.Contains(t, text, "alice01")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Wrong API key is rejected before any handler runs
	cmd := exec.Command(cli.binaryPath,
		"--server", cli.serverURL,
		"--api-key", "wrong-key",
		"--output", "json",
		"health")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(string(output)), "api key")

	// Validation failures come back as result=false with exit 0
	out, err := cli.run("player", "register", "--username", "abc", "--password", "secret-pw")
	require.NoError(t, err, "output: %s", out)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.Result)
	assert.NotEmpty(t, status.Msg)
}
