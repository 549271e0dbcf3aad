//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/config"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/infra"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/middleware"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server      *httptest.Server
	token       string
	workspaceID uuid.UUID
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("boxorganizer_test"),
		tcPostgres.WithUsername("boxorganizer"),
		tcPostgres.WithPassword("boxorganizer"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:             8000,
		Env:              "test",
		JWTSecret:        "test-secret-key",
		DatabaseURL:      pgURL,
		RedisURL:         rdURL,
		WorkerPoolSize:   1,
		LabelStoragePath: t.TempDir(),
		PublicBaseURL:    "http://localhost:8000",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	ws := &model.Workspace{ID: uuid.New(), Name: "E2E Workspace"}
	require.NoError(t, db.Create(ws).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:      srv,
		token:       mintToken(t, cfg.JWTSecret, ws.ID),
		workspaceID: ws.ID,
	}
}

func mintToken(t *testing.T, secret string, workspaceID uuid.UUID) string {
	t.Helper()
	claims := middleware.WorkspaceClaims{
		WorkspaceID: workspaceID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type locationJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

func createLocation(t *testing.T, env *testEnv, name string, parentID string) locationJSON {
	t.Helper()
	body := map[string]any{"name": name}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	resp := do(t, env.server, "POST", "/v1/locations", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var loc locationJSON
	decodeJSON(t, resp, &loc)
	return loc
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full lifecycle: locations → QR batch → box with code → search → scan →
// delete → code reusable.
func TestE2E_FullBoxLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	garage := createLocation(t, env, "Garaż", "")
	assert.Equal(t, "garaz", garage.Path)
	shelf := createLocation(t, env, "Półka metalowa", garage.ID)
	assert.Equal(t, "garaz.polka_metalowa", shelf.Path)
	assert.Equal(t, 2, shelf.Depth)

	// Generate QR codes
	batchResp := do(t, env.server, "POST", "/v1/qrcodes/batch",
		jsonBody(t, map[string]any{"quantity": 5}), env.token)
	require.Equal(t, http.StatusCreated, batchResp.StatusCode)
	var batch []struct {
		ID     string `json:"id"`
		Token  string `json:"token"`
		Status string `json:"status"`
	}
	decodeJSON(t, batchResp, &batch)
	require.Len(t, batch, 5)
	qr := batch[0]
	assert.Equal(t, "available", qr.Status)

	// Create box attached to shelf and code
	boxResp := do(t, env.server, "POST", "/v1/boxes",
		jsonBody(t, map[string]any{
			"name":        "Wiertarka Bosch",
			"description": "Wiertarka udarowa z walizką",
			"tags":        []string{"narzędzia", "elektro"},
			"location_id": shelf.ID,
			"qr_code_id":  qr.ID,
		}), env.token)
	require.Equal(t, http.StatusCreated, boxResp.StatusCode)
	var box struct {
		ID      string `json:"id"`
		ShortID string `json:"short_id"`
	}
	decodeJSON(t, boxResp, &box)
	assert.Len(t, box.ShortID, 10)

	// Search finds it by a description term
	searchResp := do(t, env.server, "GET", "/v1/boxes?q=udarowa", nil, env.token)
	require.Equal(t, http.StatusOK, searchResp.StatusCode)
	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decodeJSON(t, searchResp, &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, box.ID, page.Items[0].ID)

	// Scanning the token resolves to the box
	resolveResp := do(t, env.server, "GET", "/v1/qrcodes/resolve/"+qr.Token, nil, env.token)
	require.Equal(t, http.StatusOK, resolveResp.StatusCode)
	var resolution struct {
		QrCode struct {
			Status string `json:"status"`
		} `json:"qr_code"`
		Box *struct {
			ID string `json:"id"`
		} `json:"box"`
	}
	decodeJSON(t, resolveResp, &resolution)
	assert.Equal(t, "assigned", resolution.QrCode.Status)
	require.NotNil(t, resolution.Box)
	assert.Equal(t, box.ID, resolution.Box.ID)

	// Deleting the box frees the code
	delResp := do(t, env.server, "DELETE", "/v1/boxes/"+box.ID, nil, env.token)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resolveResp = do(t, env.server, "GET", "/v1/qrcodes/resolve/"+qr.Token, nil, env.token)
	require.Equal(t, http.StatusOK, resolveResp.StatusCode)
	resolution.Box = nil
	decodeJSON(t, resolveResp, &resolution)
	assert.Equal(t, "available", resolution.QrCode.Status)
	assert.Nil(t, resolution.Box)
}

// Depth is capped at five levels.
func TestE2E_LocationDepthLimit(t *testing.T) {
	env := setupTestEnv(t)

	parentID := ""
	for i := 1; i <= 5; i++ {
		loc := createLocation(t, env, fmt.Sprintf("Level %d", i), parentID)
		assert.Equal(t, i, loc.Depth)
		parentID = loc.ID
	}

	resp := do(t, env.server, "POST", "/v1/locations",
		jsonBody(t, map[string]any{"name": "Level 6", "parent_id": parentID}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

// Renaming a location rewrites every descendant path in one request.
func TestE2E_RenameCascade(t *testing.T) {
	env := setupTestEnv(t)

	garage := createLocation(t, env, "Garaż", "")
	shelf := createLocation(t, env, "Regał", garage.ID)

	renameResp := do(t, env.server, "PATCH", "/v1/locations/"+garage.ID,
		jsonBody(t, map[string]any{"name": "Warsztat"}), env.token)
	require.Equal(t, http.StatusOK, renameResp.StatusCode)
	var renamed locationJSON
	decodeJSON(t, renameResp, &renamed)
	assert.Equal(t, "warsztat", renamed.Path)

	getResp := do(t, env.server, "GET", "/v1/locations/"+shelf.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var child locationJSON
	decodeJSON(t, getResp, &child)
	assert.Equal(t, "warsztat.regal", child.Path)
}

// Sanitized segments contain literal underscores, which are also SQL LIKE
// wildcards. Renaming "metal_shelf" must not touch a sibling subtree like
// "metal1shelf", which a naive LIKE prefix would match.
func TestE2E_RenameLeavesUnderscoreSiblingsAlone(t *testing.T) {
	env := setupTestEnv(t)

	metal := createLocation(t, env, "Metal Shelf", "")
	require.Equal(t, "metal_shelf", metal.Path)
	metalChild := createLocation(t, env, "Crate A", metal.ID)
	require.Equal(t, "metal_shelf.crate_a", metalChild.Path)

	sibling := createLocation(t, env, "Metal1Shelf", "")
	require.Equal(t, "metal1shelf", sibling.Path)
	siblingChild := createLocation(t, env, "Crate B", sibling.ID)
	require.Equal(t, "metal1shelf.crate_b", siblingChild.Path)

	renameResp := do(t, env.server, "PATCH", "/v1/locations/"+metal.ID,
		jsonBody(t, map[string]any{"name": "Painted Shelf"}), env.token)
	require.Equal(t, http.StatusOK, renameResp.StatusCode)
	renameResp.Body.Close()

	getResp := do(t, env.server, "GET", "/v1/locations/"+metalChild.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var renamedChild locationJSON
	decodeJSON(t, getResp, &renamedChild)
	assert.Equal(t, "painted_shelf.crate_a", renamedChild.Path)

	getResp = do(t, env.server, "GET", "/v1/locations/"+siblingChild.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var untouched locationJSON
	decodeJSON(t, getResp, &untouched)
	assert.Equal(t, "metal1shelf.crate_b", untouched.Path)
}

// Deleting a location detaches its boxes but keeps them.
func TestE2E_LocationDeleteUnlinksBoxes(t *testing.T) {
	env := setupTestEnv(t)

	garage := createLocation(t, env, "Garage", "")
	boxResp := do(t, env.server, "POST", "/v1/boxes",
		jsonBody(t, map[string]any{"name": "Tools", "location_id": garage.ID}), env.token)
	require.Equal(t, http.StatusCreated, boxResp.StatusCode)
	var box struct {
		ID string `json:"id"`
	}
	decodeJSON(t, boxResp, &box)

	delResp := do(t, env.server, "DELETE", "/v1/locations/"+garage.ID, nil, env.token)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	getResp := do(t, env.server, "GET", "/v1/boxes/"+box.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var detached struct {
		ID         string  `json:"id"`
		LocationID *string `json:"location_id"`
	}
	decodeJSON(t, getResp, &detached)
	assert.Nil(t, detached.LocationID)

	// The deleted location is gone from reads
	locResp := do(t, env.server, "GET", "/v1/locations/"+garage.ID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, locResp.StatusCode)
	locResp.Body.Close()
}

// A code held by one box cannot be taken by another.
func TestE2E_QrCodeConflict(t *testing.T) {
	env := setupTestEnv(t)

	batchResp := do(t, env.server, "POST", "/v1/qrcodes/batch",
		jsonBody(t, map[string]any{"quantity": 1}), env.token)
	require.Equal(t, http.StatusCreated, batchResp.StatusCode)
	var batch []struct {
		ID string `json:"id"`
	}
	decodeJSON(t, batchResp, &batch)
	qrID := batch[0].ID

	first := do(t, env.server, "POST", "/v1/boxes",
		jsonBody(t, map[string]any{"name": "First", "qr_code_id": qrID}), env.token)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	first.Body.Close()

	second := do(t, env.server, "POST", "/v1/boxes",
		jsonBody(t, map[string]any{"name": "Second", "qr_code_id": qrID}), env.token)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	second.Body.Close()
}

// Requests without a token are rejected before reaching any handler.
func TestE2E_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/boxes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
