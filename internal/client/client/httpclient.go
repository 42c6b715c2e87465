package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/venus/internal/client/models"
	"github.com/dmitrijs2005/venus/internal/common"
)

// HTTPClient implements Client against the REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, "", nil)
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.Session, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	body := map[string]string{"username": username, "password": password}
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, "", nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	var out []models.ProjectSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	var p models.Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects", map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, "", nil)
}

func (c *HTTPClient) ListImages(ctx context.Context) ([]models.Image, error) {
	var out []models.Image
	if err := c.doJSON(ctx, http.MethodGet, "/api/images", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage streams r as the "image" part of a multipart form. projectID
// is optional.
func (c *HTTPClient) UploadImage(ctx context.Context, name string, r io.Reader, projectID string) (*models.Image, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(mw, name, r, projectID)
		pw.CloseWithError(err)
	}()

	var img models.Image
	if err := c.do(ctx, http.MethodPost, "/api/images", pr, mw.FormDataContentType(), &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func writeUploadForm(mw *multipart.Writer, name string, r io.Reader, projectID string) error {
	if projectID != "" {
		if err := mw.WriteField("project_id", projectID); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("image", filepath.Base(name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}

// IsUnavailable reports whether err came from a failed round trip rather
// than an answer from the server.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
