package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/venus/internal/dbx"
	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/auth"
	"github.com/dmitrijs2005/venus/internal/server/metrics"
	"github.com/dmitrijs2005/venus/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/venus/internal/server/services"
	"github.com/dmitrijs2005/venus/internal/server/storage"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	srv    *Server
	ts     *httptest.Server
	codec  *auth.TokenCodec
	blobs  *storage.FilesystemStore
	reg    *prometheus.Registry
	router http.Handler
}

type envOption func(*Options, *auth.ResolverConfig)

func withUploadLimit(n int64) envOption {
	return func(o *Options, _ *auth.ResolverConfig) { o.MaxUploadSize = n }
}

func withDevBypass() envOption {
	return func(_ *Options, rc *auth.ResolverConfig) {
		rc.InsecureDevBypass = true
		rc.DevSubjectID = 1
	}
}

func withStaticDir(dir string) envOption {
	return func(o *Options, _ *auth.ResolverConfig) { o.StaticDir = dir }
}

// newTestEnv wires the real stack on an in-memory SQLite database.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, dialect, err := dbx.Open("sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	reg := prometheus.NewRegistry()
	mc := metrics.NewCollector(reg)

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost, auth.NewHashLimiter(2), mc)
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec([]byte("rest-test-secret"), time.Hour)
	require.NoError(t, err)

	blobs, err := storage.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	o := Options{TokenTTL: time.Hour, MaxUploadSize: 1 << 20}
	rc := auth.ResolverConfig{}
	for _, fn := range opts {
		fn(&o, &rc)
	}

	logger := logging.Nop{}
	srv := NewServer(o, Deps{
		Users:    services.NewUserService(db, rm, hasher, codec),
		Projects: services.NewProjectService(db, rm),
		Images:   services.NewImageService(db, rm, blobs, logger, mc),
		Resolver: auth.NewResolver(codec, rc, mc),
		DB:       db,
		Logger:   logger,
		Metrics:  mc,
		Gatherer: reg,
	})
	router := srv.Router()

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, ts: ts, codec: codec, blobs: blobs, reg: reg, router: router}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) register(t *testing.T, username, password string) authResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", registerRequest{
		Username: username, Email: username + "@example.com", Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[authResponse](t, resp)
}

func (e *testEnv) upload(t *testing.T, token, filename string, data []byte, projectID string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	if projectID != "" {
		require.NoError(t, mw.WriteField("project_id", projectID))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/api/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
