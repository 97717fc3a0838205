package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/client/client"
	"github.com/dmitrijs2005/lockwise/internal/client/config"
	"github.com/dmitrijs2005/lockwise/internal/client/session"
)

type fakeAPI struct {
	userID   string
	onTokens func(userID, refreshToken string)

	pingErr error

	regEmail string
	regPass  []byte
	regErr   error

	loginEmail string
	loginPass  []byte
	loginErr   error

	resumeToken string
	resumeErr   error

	logoutCalled bool
	closeCalled  bool

	enrolled   biometrics.Descriptor
	enrollErr  error
	verified   biometrics.Descriptor
	verifyRes  *client.VerifyResult
	verifyErr  error
	hasEnroll  bool
	hasErr     error
	resetCalls int
	resetErr   error

	creds     []client.Credential
	created   client.Credential
	patchID   string
	patch     client.CredentialPatch
	deletedID string
	passErr   error
}

func (f *fakeAPI) Close() error                   { f.closeCalled = true; return nil }
func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeAPI) Register(ctx context.Context, email string, password []byte) (string, error) {
	f.regEmail, f.regPass = email, append([]byte(nil), password...)
	if f.regErr != nil {
		return "", f.regErr
	}
	return "u1", nil
}
func (f *fakeAPI) Login(ctx context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.setUser("u1", "R1")
	return nil
}
func (f *fakeAPI) Resume(ctx context.Context, refreshToken string) error {
	f.resumeToken = refreshToken
	if f.resumeErr != nil {
		return f.resumeErr
	}
	f.setUser("u1", "R2")
	return nil
}
func (f *fakeAPI) setUser(userID, refresh string) {
	f.userID = userID
	if f.onTokens != nil {
		f.onTokens(userID, refresh)
	}
}
func (f *fakeAPI) Logout()        { f.logoutCalled = true; f.userID = "" }
func (f *fakeAPI) UserID() string { return f.userID }
func (f *fakeAPI) Enroll(ctx context.Context, d biometrics.Descriptor) (int64, error) {
	f.enrolled = d
	return 2, f.enrollErr
}
func (f *fakeAPI) Verify(ctx context.Context, d biometrics.Descriptor) (*client.VerifyResult, error) {
	f.verified = d
	return f.verifyRes, f.verifyErr
}
func (f *fakeAPI) HasEnrolled(ctx context.Context) (bool, error) { return f.hasEnroll, f.hasErr }
func (f *fakeAPI) Reset(ctx context.Context) error {
	f.resetCalls++
	return f.resetErr
}
func (f *fakeAPI) OnTokens(fn func(userID, refreshToken string)) { f.onTokens = fn }
func (f *fakeAPI) ListPasswords(ctx context.Context) ([]client.Credential, error) {
	return f.creds, f.passErr
}
func (f *fakeAPI) CreatePassword(ctx context.Context, c client.Credential) (*client.Credential, error) {
	if f.passErr != nil {
		return nil, f.passErr
	}
	f.created = c
	c.ID = "e1"
	return &c, nil
}
func (f *fakeAPI) UpdatePassword(ctx context.Context, id string, patch client.CredentialPatch) (*client.Credential, error) {
	f.patchID, f.patch = id, patch
	if f.passErr != nil {
		return nil, f.passErr
	}
	return &client.Credential{ID: id}, nil
}
func (f *fakeAPI) DeletePassword(ctx context.Context, id string) error {
	if f.passErr != nil {
		return f.passErr
	}
	f.deletedID = id
	return nil
}

type fakeStore struct {
	saved   *session.Session
	loadErr error
	saveErr error
	cleared bool
	closed  bool
}

func (s *fakeStore) Load(ctx context.Context) (*session.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.saved, nil
}
func (s *fakeStore) Save(ctx context.Context, sess session.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = &sess
	return nil
}
func (s *fakeStore) Clear(ctx context.Context) error {
	s.cleared = true
	s.saved = nil
	return nil
}
func (s *fakeStore) Close() error { s.closed = true; return nil }

func newTestApp(api *fakeAPI, store *fakeStore, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	var st session.Store
	if store != nil {
		st = store
	}
	cfg := &config.Config{RequestTimeout: 0}
	return newApp(cfg, api, st, bufio.NewReader(strings.NewReader(input)), &out), &out
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// stubPassword replaces only the no-echo prompt; text prompts keep reading
// from the app's reader.
func stubPassword(t *testing.T, password string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { getPassword = orig })
}

func stubDescriptor(t *testing.T, d biometrics.Descriptor, err error) *string {
	t.Helper()
	var gotPath string
	orig := loadDescriptor
	loadDescriptor = func(path string) (biometrics.Descriptor, error) {
		gotPath = path
		return d, err
	}
	t.Cleanup(func() { loadDescriptor = orig })
	return &gotPath
}
