package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/venus/internal/client/client"
	"github.com/dmitrijs2005/venus/internal/client/models"
)

type fakeAPI struct {
	token string

	regUser, regEmail, regPass string
	loginUser, loginPass       string
	session                    *models.Session
	authErr                    error

	logoutCalled bool
	logoutErr    error

	me    *models.User
	meErr error

	projects   []models.ProjectSummary
	project    *models.Project
	projectErr error
	created    string
	deleted    string

	images      []models.Image
	uploadName  string
	uploadBody  string
	uploadProj  string
	uploadImage *models.Image

	pingErr error
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}

func (f *fakeAPI) CurrentUser(context.Context) (*models.User, error) { return f.me, f.meErr }

func (f *fakeAPI) Register(_ context.Context, username, email, password string) (*models.Session, error) {
	f.regUser, f.regEmail, f.regPass = username, email, password
	return f.session, f.authErr
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*models.Session, error) {
	f.loginUser, f.loginPass = username, password
	return f.session, f.authErr
}

func (f *fakeAPI) ListProjects(context.Context) ([]models.ProjectSummary, error) {
	return f.projects, f.projectErr
}

func (f *fakeAPI) CreateProject(_ context.Context, name string) (*models.Project, error) {
	f.created = name
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	return &models.Project{ID: "p-new", Name: name}, nil
}

func (f *fakeAPI) GetProject(context.Context, string) (*models.Project, error) {
	return f.project, f.projectErr
}

func (f *fakeAPI) DeleteProject(_ context.Context, id string) error {
	f.deleted = id
	return f.projectErr
}

func (f *fakeAPI) ListImages(context.Context) ([]models.Image, error) {
	return f.images, nil
}

func (f *fakeAPI) UploadImage(_ context.Context, name string, r io.Reader, projectID string) (*models.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.uploadName, f.uploadBody, f.uploadProj = name, string(data), projectID
	return f.uploadImage, nil
}

type testApp struct {
	*App
	api    *fakeAPI
	out    *bytes.Buffer
	tokens *TokenStore
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	api := &fakeAPI{}
	out := &bytes.Buffer{}
	tokens := NewTokenStore(filepath.Join(t.TempDir(), "venus", "token"))
	return &testApp{App: newApp(api, tokens, strings.NewReader(input), out), api: api, out: out, tokens: tokens}
}

func stubInputs(t *testing.T, lines []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		i++
		return lines[i-1], nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
