package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akeren/levelup-fit/config"
	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/domain"
	"github.com/akeren/levelup-fit/domain/waitlist"
	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type formSnapshot struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	State      string `json:"state"`
	Submitting bool   `json:"submitting"`
}

type submitResponse struct {
	Outcome string       `json:"outcome"`
	Form    formSnapshot `json:"form"`
}

type toast struct {
	Level      string `json:"level"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms"`
}

type notificationsResponse struct {
	Notifications []toast `json:"notifications"`
}

func newApp(t *testing.T, db *gorm.DB, waitlistCfg *config.WaitlistConfig) (*config.ApplicationConfig, *httptest.Server) {
	t.Helper()

	logger := log.NewLoggerWithJSONOutput()
	appConfig := &config.ApplicationConfig{
		DB:       db,
		Logger:   logger,
		Waitlist: waitlistCfg,
	}

	appConfig.RouterService = router.CreateRouterService(logger, nil, router.DefaultConfig())
	t.Cleanup(appConfig.RouterService.Cleanup)

	require.NoError(t, domain.SetupCoreDomain(appConfig))

	return appConfig, httptest.NewServer(appConfig.RouterService.GetEngine())
}

func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	appConfig *config.ApplicationConfig
	client    *http.Client
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.AutoMigrate(models.ModelRegistry...))

	suite.appConfig, suite.server = newApp(suite.T(), suite.db, &config.WaitlistConfig{
		Registrar:      waitlist.RegistrarDatabase,
		SessionTTL:     time.Minute,
		ToastRetention: time.Minute,
	})
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	suite.NoError(suite.appConfig.Drain(ctx))

	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist_entries")
	suite.client = newClient(suite.T())
}

func (suite *WaitlistAPITestSuite) countEntries() int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.WaitlistEntry{}).Count(&count).Error)
	return count
}

func (suite *WaitlistAPITestSuite) notifications() []toast {
	status, env := doJSON(suite.T(), suite.client, http.MethodGet, suite.baseURL+"/v1/waitlist/notifications", nil)
	suite.Require().Equal(http.StatusOK, status)
	return decode[notificationsResponse](suite.T(), env.Data).Notifications
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	status, env := doJSON(suite.T(), suite.client, http.MethodGet, suite.baseURL+"/health", nil)

	suite.Equal(http.StatusOK, status)
	suite.Contains(env.Message, "health check completed")

	data := decode[map[string]any](suite.T(), env.Data)
	suite.Equal(float64(1), data["database"])
	suite.Equal(waitlist.RegistrarDatabase, data["registrar"])
	suite.Contains(data, "uptime")
}

func (suite *WaitlistAPITestSuite) TestLandingPage() {
	for path, theme := range map[string]string{"/": "light", "/neural": "neural"} {
		resp, err := suite.client.Get(suite.baseURL + path)
		suite.Require().NoError(err)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		suite.Require().NoError(err)

		suite.Equal(http.StatusOK, resp.StatusCode)
		suite.True(strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
		suite.Contains(string(body), `data-theme="`+theme+`"`)
		suite.Contains(string(body), "Join the Waitlist")
	}
}

func (suite *WaitlistAPITestSuite) TestJoinAndWait() {
	status, env := doJSON(suite.T(), suite.client, http.MethodPost, suite.baseURL+"/v1/waitlist?wait=true", map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
	})

	suite.Equal(http.StatusOK, status)
	resp := decode[submitResponse](suite.T(), env.Data)
	suite.Equal("accepted", resp.Outcome)
	suite.False(resp.Form.Submitting)
	suite.Equal("idle", resp.Form.State)
	suite.Empty(resp.Form.Name)
	suite.Empty(resp.Form.Email)

	suite.Equal(int64(1), suite.countEntries())

	toasts := suite.notifications()
	suite.Require().Len(toasts, 1)
	suite.Equal("success", toasts[0].Level)
	suite.Equal(waitlist.MessageJoined, toasts[0].Message)
	suite.Equal(int64(2000), toasts[0].DurationMS)

	suite.Empty(suite.notifications())
}

func (suite *WaitlistAPITestSuite) TestJoinTwiceWithSameEmailSucceeds() {
	body := map[string]string{"name": "Ada", "email": "ada@example.com"}

	for i := 0; i < 2; i++ {
		status, _ := doJSON(suite.T(), suite.client, http.MethodPost, suite.baseURL+"/v1/waitlist?wait=true", body)
		suite.Equal(http.StatusOK, status)
	}

	suite.Equal(int64(1), suite.countEntries())

	toasts := suite.notifications()
	suite.Require().Len(toasts, 2)
	for _, toast := range toasts {
		suite.Equal(waitlist.MessageJoined, toast.Message)
	}
}

func (suite *WaitlistAPITestSuite) TestJoinWithMissingFields() {
	status, env := doJSON(suite.T(), suite.client, http.MethodPost, suite.baseURL+"/v1/waitlist", map[string]string{
		"name":  "",
		"email": "ada@example.com",
	})

	suite.Equal(http.StatusBadRequest, status)
	suite.Equal(waitlist.MessageMissingFields, env.Message)

	resp := decode[submitResponse](suite.T(), env.Data)
	suite.Equal("rejected", resp.Outcome)
	suite.False(resp.Form.Submitting)
	suite.Equal("ada@example.com", resp.Form.Email)

	toasts := suite.notifications()
	suite.Require().Len(toasts, 1)
	suite.Equal("error", toasts[0].Level)
	suite.Equal(waitlist.MessageMissingFields, toasts[0].Message)

	suite.Equal(int64(0), suite.countEntries())
}

func (suite *WaitlistAPITestSuite) TestJoinRejectsOversizedFields() {
	status, env := doJSON(suite.T(), suite.client, http.MethodPost, suite.baseURL+"/v1/waitlist", map[string]string{
		"name":  strings.Repeat("a", 256),
		"email": "ada@example.com",
	})

	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("Invalid request payload", env.Message)
	suite.Empty(suite.notifications())
}

func (suite *WaitlistAPITestSuite) TestKeystrokeUpdatesThenSubmit() {
	name := "Grace"
	status, env := doJSON(suite.T(), suite.client, http.MethodPatch, suite.baseURL+"/v1/waitlist/form", map[string]*string{"name": &name})
	suite.Equal(http.StatusOK, status)
	suite.Equal("Grace", decode[formSnapshot](suite.T(), env.Data).Name)

	email := "grace@example.com"
	status, _ = doJSON(suite.T(), suite.client, http.MethodPatch, suite.baseURL+"/v1/waitlist/form", map[string]*string{"email": &email})
	suite.Equal(http.StatusOK, status)

	status, env = doJSON(suite.T(), suite.client, http.MethodGet, suite.baseURL+"/v1/waitlist/form", nil)
	suite.Equal(http.StatusOK, status)
	snapshot := decode[formSnapshot](suite.T(), env.Data)
	suite.Equal("Grace", snapshot.Name)
	suite.Equal("grace@example.com", snapshot.Email)

	status, env = doJSON(suite.T(), suite.client, http.MethodPost, suite.baseURL+"/v1/waitlist/form/submit?wait=true", nil)
	suite.Equal(http.StatusOK, status)
	suite.Empty(decode[submitResponse](suite.T(), env.Data).Form.Name)

	entry := models.WaitlistEntry{}
	suite.Require().NoError(suite.db.Where("email = ?", "grace@example.com").First(&entry).Error)
	suite.Equal("Grace", entry.Name)
}

func (suite *WaitlistAPITestSuite) TestSessionsAreIsolated() {
	name := "Ada"
	status, _ := doJSON(suite.T(), suite.client, http.MethodPatch, suite.baseURL+"/v1/waitlist/form", map[string]*string{"name": &name})
	suite.Equal(http.StatusOK, status)

	other := newClient(suite.T())
	status, env := doJSON(suite.T(), other, http.MethodGet, suite.baseURL+"/v1/waitlist/form", nil)
	suite.Equal(http.StatusOK, status)
	suite.Empty(decode[formSnapshot](suite.T(), env.Data).Name)

	status, _ = doJSON(suite.T(), other, http.MethodPost, suite.baseURL+"/v1/waitlist/form/submit", nil)
	suite.Equal(http.StatusBadRequest, status)

	suite.Empty(suite.notifications())
}

func TestWaitlistAPITestSuite(t *testing.T) {
	suite.Run(t, new(WaitlistAPITestSuite))
}

func TestSimulatedSubmissionLifecycle(t *testing.T) {
	appConfig, server := newApp(t, nil, &config.WaitlistConfig{
		SimulatedDelay: 200 * time.Millisecond,
		SessionTTL:     time.Minute,
		ToastRetention: time.Minute,
	})
	defer server.Close()

	client := newClient(t)
	body := map[string]string{"name": "Ada", "email": "ada@example.com"}

	status, env := doJSON(t, client, http.MethodPost, server.URL+"/v1/waitlist", body)
	require.Equal(t, http.StatusAccepted, status)
	first := decode[submitResponse](t, env.Data)
	assert.Equal(t, "accepted", first.Outcome)
	assert.True(t, first.Form.Submitting)
	assert.Equal(t, "Ada", first.Form.Name)

	status, env = doJSON(t, client, http.MethodPost, server.URL+"/v1/waitlist/form/submit", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ignored", decode[submitResponse](t, env.Data).Outcome)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, appConfig.Drain(ctx))

	status, env = doJSON(t, client, http.MethodGet, server.URL+"/v1/waitlist/form", nil)
	require.Equal(t, http.StatusOK, status)
	snapshot := decode[formSnapshot](t, env.Data)
	assert.False(t, snapshot.Submitting)
	assert.Empty(t, snapshot.Name)
	assert.Empty(t, snapshot.Email)

	status, env = doJSON(t, client, http.MethodGet, server.URL+"/v1/waitlist/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	toasts := decode[notificationsResponse](t, env.Data).Notifications
	require.Len(t, toasts, 1)
	assert.Equal(t, waitlist.MessageJoined, toasts[0].Message)
}
