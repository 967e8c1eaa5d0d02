package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"promptparty/internal/api/apierr"
	"promptparty/internal/api/response"
	"promptparty/internal/factory"
	"promptparty/internal/model"
	"promptparty/internal/services/moderation"
	"promptparty/internal/testutil"
)

const testAPIKey = "test-api-key"

// fakeLocalizer fans a text out to every supported language
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

// fakeContentSafety returns fixed severities for every analyzed text
func fakeContentSafety(severities []float64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/contentsafety/text:analyze", func(w http.ResponseWriter, r *http.Request) {
		categories := []string{"Hate", "SelfHarm", "Sexual", "Violence"}
		var analysis []map[string]any
		for i, severity := range severities {
			analysis = append(analysis, map[string]any{
				"category": categories[i%len(categories)],
				"severity": severity,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"categoriesAnalysis": analysis})
	})
	return httptest.NewServer(mux)
}

type APITestSuite struct {
	suite.Suite
	app        *factory.App
	server     *httptest.Server
	moderation *httptest.Server
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.moderation = fakeContentSafety([]float64{4, 4, 4, 4})

	modCfg := moderation.DefaultConfig()
	modCfg.Endpoint = s.moderation.URL
	modCfg.Key = "mod-key"

	app, err := factory.New(factory.Config{
		Logger:           testutil.NopLogger(),
		StorageType:      factory.StorageTypeMemory,
		Translator:       &fakeLocalizer{},
		ModerationConfig: modCfg,
	})
	s.Require().NoError(err)
	s.app = app

	router := NewRouter(RouterConfig{
		Logger:            testutil.NopLogger(),
		APIKey:            testAPIKey,
		PlayerService:     app.PlayerService,
		PromptService:     app.PromptService,
		ModerationService: app.ModerationService,
	})
	s.server = httptest.NewServer(router)
}

func (s *APITestSuite) TearDownTest() {
	s.server.Close()
	s.moderation.Close()
}

// request sends a JSON request with the API key and returns the raw
// response body
func (s *APITestSuite) request(method, path string, body any) (int, []byte) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.server.URL+path, buf)
	s.Require().NoError(err)
	req.Header.Set("x-api-key", testAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, raw
}

// envelope sends a request and decodes the standard status envelope
func (s *APITestSuite) envelope(method, path string, body any) (int, apierr.StatusResponse) {
	status, raw := s.request(method, path, body)
	var env apierr.StatusResponse
	s.Require().NoError(json.Unmarshal(raw, &env))
	return status, env
}

func (s *APITestSuite) register(username string) {
	status, env := s.envelope(http.MethodPost, "/player/register", map[string]any{
		"username": username,
		"password": "secret-pw",
	})
	s.Require().Equal(http.StatusOK, status)
	s.Require().True(env.Result)
}

func (s *APITestSuite) createPrompt(username, text string, tags []string) {
	status, env := s.envelope(http.MethodPost, "/prompt/create", map[string]any{
		"username": username,
		"text":     text,
		"tags":     tags,
	})
	s.Require().Equal(http.StatusOK, status)
	s.Require().True(env.Result, env.Msg)
}

// Player endpoints

func (s *APITestSuite) TestRegisterAndLogin() {
	s.register("alice01")

	status, env := s.envelope(http.MethodGet, "/player/login", map[string]any{
		"username": "alice01",
		"password": "secret-pw",
	})
	s.Equal(http.StatusOK, status)
	s.True(env.Result)
	s.Equal("OK", env.Msg)
}

func (s *APITestSuite) TestRegisterValidationKeeps200() {
	status, env := s.envelope(http.MethodPost, "/player/register", map[string]any{
		"username": "abc",
		"password": "secret-pw",
	})
	s.Equal(http.StatusOK, status)
	s.False(env.Result)
	s.NotEmpty(env.Msg)
}

func (s *APITestSuite) TestRegisterDuplicateUsername() {
	s.register("alice01")

	status, env := s.envelope(http.MethodPost, "/player/register", map[string]any{
		"username": "alice01",
		"password": "other-pw1",
	})
	s.Equal(http.StatusOK, status)
	s.False(env.Result)
}

func (s *APITestSuite) TestLoginWrongPassword() {
	s.register("alice01")

	status, env := s.envelope(http.MethodGet, "/player/login", map[string]any{
		"username": "alice01",
		"password": "wrong-pw1",
	})
	s.Equal(http.StatusOK, status)
	s.False(env.Result)
	s.Equal("username or password incorrect", env.Msg)
}

func (s *APITestSuite) TestUpdatePlayer() {
	s.register("alice01")

	status, env := s.envelope(http.MethodPut, "/player/update", map[string]any{
		"username":            "alice01",
		"add_to_games_played": 3,
		"add_to_score":        50,
	})
	s.Equal(http.StatusOK, status)
	s.True(env.Result)
}

func (s *APITestSuite) TestUpdateUnknownPlayer() {
	status, env := s.envelope(http.MethodPut, "/player/update", map[string]any{
		"username":            "nobody99",
		"add_to_games_played": 1,
		"add_to_score":        10,
	})
	s.Equal(http.StatusOK, status)
	s.False(env.Result)
}

func (s *APITestSuite) TestMalformedBodyKeeps200() {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/player/register", bytes.NewReader([]byte("{not json")))
	s.Require().NoError(err)
	req.Header.Set("x-api-key", testAPIKey)

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env apierr.StatusResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	s.Equal(http.StatusOK, resp.StatusCode)
	s.False(env.Result)
	s.Equal("invalid request body", env.Msg)
}

// Prompt endpoints

func (s *APITestSuite) TestCreatePrompt() {
	s.register("alice01")
	s.createPrompt("alice01", "what is your favourite colour of sky", []string{"casual"})

	prompts, err := s.app.PromptService.FindByOwner(context.Background(), "alice01")
	s.Require().NoError(err)
	s.Require().Len(prompts, 1)
	s.Len(prompts[0].Texts, 6)
}

func (s *APITestSuite) TestCreatePromptUnknownPlayer() {
	status, env := s.envelope(http.MethodPost, "/prompt/create", map[string]any{
		"username": "nobody99",
		"text":     "what is your favourite colour of sky",
	})
	s.Equal(http.StatusOK, status)
	s.False(env.Result)
}

func (s *APITestSuite) TestModeratePrompts() {
	s.register("alice01")
	s.createPrompt("alice01", "what is your favourite colour of sky", nil)

	prompts, err := s.app.PromptService.FindByOwner(context.Background(), "alice01")
	s.Require().NoError(err)
	s.Require().Len(prompts, 1)

	status, raw := s.request(http.MethodPost, "/prompt/moderate", map[string]any{
		"prompt-ids": []string{string(prompts[0].ID), "pr_missing"},
	})
	s.Require().Equal(http.StatusOK, status)

	var verdicts []response.Verdict
	s.Require().NoError(json.Unmarshal(raw, &verdicts))
	s.Require().Len(verdicts, 1)
	s.Equal(string(prompts[0].ID), verdicts[0].PromptID)
	s.True(verdicts[0].Outcome)
	s.InDelta(4.0, verdicts[0].AverageSeverity, 0.0001)
}

func (s *APITestSuite) TestDeletePrompts() {
	s.register("alice01")
	s.createPrompt("alice01", "what is your favourite colour of sky", nil)
	s.createPrompt("alice01", "name a food you would never ever eat", nil)

	status, env := s.envelope(http.MethodPost, "/prompt/delete", map[string]any{
		"player": "alice01",
	})
	s.Equal(http.StatusOK, status)
	s.True(env.Result)
	s.Equal("2 prompts deleted", env.Msg)
}

// Utility endpoints

func (s *APITestSuite) TestGetByPlayersAndTags() {
	s.register("alice01")
	s.register("bob-the-kid")
	s.createPrompt("alice01", "what is your favourite colour of sky", []string{"Science"})
	s.createPrompt("alice01", "name a food you would never ever eat", []string{"food"})
	s.createPrompt("bob-the-kid", "which planet would you most like to visit", []string{"SCIENCE"})

	status, raw := s.request(http.MethodGet, "/utils/get", map[string]any{
		"players":  []string{"alice01", "bob-the-kid"},
		"tag_list": []string{"science"},
	})
	s.Require().Equal(http.StatusOK, status)

	var prompts []response.Prompt
	s.Require().NoError(json.Unmarshal(raw, &prompts))
	s.Require().Len(prompts, 2)
	s.Equal("alice01", prompts[0].Username)
	s.Equal("bob-the-kid", prompts[1].Username)
}

func (s *APITestSuite) TestHealth() {
	status, raw := s.request(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"status":"ok"}`, string(raw))
}

// API key middleware

func (s *APITestSuite) TestMissingAPIKeyRejected() {
	resp, err := s.server.Client().Get(s.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APITestSuite) TestWrongAPIKeyRejected() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/health", nil)
	s.Require().NoError(err)
	req.Header.Set("x-api-key", "wrong-key")

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APITestSuite) TestAPIKeyViaQueryParam() {
	resp, err := s.server.Client().Get(s.server.URL + "/health?code=" + testAPIKey)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
