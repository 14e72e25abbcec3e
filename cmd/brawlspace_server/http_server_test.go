package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brawlspace/brawlspace/internal/achievement"
	"github.com/brawlspace/brawlspace/internal/broadcast"
	"github.com/brawlspace/brawlspace/internal/database"
	"github.com/brawlspace/brawlspace/internal/mission"
	"github.com/brawlspace/brawlspace/internal/model"
)

type TestApp struct {
	*App
	api *HTTPApi
}

func NewTestApp() *TestApp {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	sqlDB.SetMaxOpenConns(1)

	app := &App{
		logger: slog.Default(),
		config: &AppConfig{
			jwtSecret:      "test-secret",
			jwtTTL:         time.Hour,
			joinInProgress: true,
		},
		dbm:         database.New(db),
		broadcaster: broadcast.NewBroadcaster(),
		notifier:    broadcast.NewDispatcher(),
	}

	if err := app.dbm.Migrate(); err != nil {
		panic(err)
	}

	app.dbm.AddDefaults()

	app.engine = mission.NewEngine(
		app.dbm,
		achievement.NewEvaluator(app.dbm),
		app.broadcaster,
		app.notifier,
		mission.Options{JoinInProgress: true},
	)

	return &TestApp{App: app, api: NewHTTPApi(app, "localhost:1234")}
}

func (app *TestApp) Req(method, url, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, url, body)

	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	return app.api.f.Test(req, 3000)
}

func (app *TestApp) JSONReq(method, url, token string, obj any) (*http.Response, error) {
	d, err := json.Marshal(obj)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(d))

	if err != nil {
		return nil, err
	}

	req.Header.Add(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Add(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	return app.api.f.Test(req, 3000)
}

func (app *TestApp) register(t *testing.T, username string) string {
	t.Helper()

	resp, err := app.JSONReq("POST", "/api/auth/register", "",
		fiber.Map{"username": username, "password": "secret1", "display_name": username})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var tr TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	require.NotEmpty(t, tr.Token)

	return tr.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func TestRegisterAndLogin(t *testing.T) {
	app := NewTestApp()

	app.register(t, "user1")

	// duplicate username
	resp, err := app.JSONReq("POST", "/api/auth/register", "",
		fiber.Map{"username": "user1", "password": "secret1"})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	for _, d := range []struct {
		login string
		psw   string
		code  int
	}{
		{"user1", "secret1", fiber.StatusOK},
		{"user1", "wrong", fiber.StatusUnauthorized},
		{"nobody", "secret1", fiber.StatusUnauthorized},
	} {
		t.Run("login_as_"+d.login, func(t *testing.T) {
			resp, err := app.JSONReq("POST", "/api/auth/login", "",
				fiber.Map{"username": d.login, "password": d.psw})
			require.NoError(t, err)
			require.Equal(t, d.code, resp.StatusCode)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	app := NewTestApp()

	resp, err := app.Req("GET", "/api/mission", "", nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Req("GET", "/api/mission", "garbage-token", nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMissionFlow(t *testing.T) {
	app := NewTestApp()

	chief := app.register(t, "chief")
	member := app.register(t, "member")

	resp, err := app.JSONReq("POST", "/api/mission", chief,
		fiber.Map{"name": "first mission", "max_crew": 3, "category": "pvp"})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := decode[map[string]any](t, resp)
	id := int(created["id"].(float64))
	require.NotZero(t, id)

	url := "/api/mission/" + itoa(id)

	// capacity below the minimum is refused
	resp, err = app.JSONReq("POST", "/api/mission", chief, fiber.Map{"name": "bad", "max_crew": 1})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// chief cannot join their own mission
	resp, err = app.Req("POST", url+"/join", chief, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Req("POST", url+"/join", member, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// only the chief may start
	resp, err = app.Req("POST", url+"/start", member, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Req("POST", url+"/start", chief, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	started := decode[map[string]any](t, resp)
	assert.Equal(t, "in_progress", started["status"])

	resp, err = app.Req("POST", url+"/complete", chief, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// terminal state
	resp, err = app.Req("POST", url+"/start", chief, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Req("GET", "/api/achievement/my", member, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	achievements := decode[[]map[string]any](t, resp)
	require.NotEmpty(t, achievements)

	var earned int

	for _, a := range achievements {
		if a["earned"] == true {
			earned++
		}
	}

	// First Steps and Mission Accomplished
	assert.Equal(t, 2, earned)
}

func TestChatEndpoints(t *testing.T) {
	app := NewTestApp()

	chief := app.register(t, "chief")

	resp, err := app.JSONReq("POST", "/api/mission", chief,
		fiber.Map{"name": "chatty mission", "max_crew": 3})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := decode[map[string]any](t, resp)
	url := "/api/mission/" + itoa(int(created["id"].(float64)))

	resp, err = app.JSONReq("POST", url+"/message", chief, fiber.Map{"content": "hello"})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.JSONReq("POST", url+"/message", chief, fiber.Map{"content": "   "})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Req("GET", url+"/message", chief, nil)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	history := decode[[]map[string]any](t, resp)
	require.NotEmpty(t, history)
	assert.Equal(t, "hello", history[len(history)-1]["content"])
}

func TestTokenRoundTrip(t *testing.T) {
	id, username, err := parseToken(mustToken(t, 42, "answer", "s3cret"), "s3cret")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, "answer", username)

	_, _, err = parseToken(mustToken(t, 42, "answer", "s3cret"), "other")
	require.Error(t, err)
}

func mustToken(t *testing.T, id uint, username, secret string) string {
	t.Helper()

	token, err := makeToken(&model.Brawler{ID: id, Username: username}, secret, time.Hour)
	require.NoError(t, err)

	return token
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
