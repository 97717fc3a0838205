package cli

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/client/client"
	"github.com/dmitrijs2005/lockwise/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log.Default().Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(old) })
	return &buf
}

func TestIsLoggedIn(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(api, nil, "")
	assert.False(t, a.isLoggedIn())

	api.userID = "u1"
	assert.True(t, a.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	a, _ := newTestApp(&fakeAPI{}, nil, "")
	buf := captureLog(t)

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode)
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	a.setMode(ModeOnline)
	assert.Empty(t, buf.String())

	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode)
	assert.NotEmpty(t, buf.String())
}

func TestCheckOnline(t *testing.T) {
	captureLog(t)
	api := &fakeAPI{}
	a, _ := newTestApp(api, nil, "")

	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.Mode)

	api.pingErr = client.ErrUnavailable
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.Mode)
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	captureLog(t)
	a, _ := newTestApp(&fakeAPI{}, nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestGetStatus(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(api, nil, "")
	assert.Equal(t, "", a.getStatus())

	a.Mode = ModeOnline
	assert.Equal(t, "(online)", a.getStatus())

	api.userID = "u1"
	assert.Equal(t, "(u1 online)", a.getStatus())

	a.email = "alice@example.org"
	assert.Equal(t, "(alice@example.org online)", a.getStatus())
}

func TestResume_FromStoredSession(t *testing.T) {
	captureLog(t)
	api := &fakeAPI{}
	store := &fakeStore{saved: &session.Session{UserID: "u1", Email: "alice@example.org", RefreshToken: "R1"}}
	a, _ := newTestApp(api, store, "")

	a.resume(context.Background())
	assert.Equal(t, "R1", api.resumeToken)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "alice@example.org", a.email)

	// the rotated token replaces the stored one
	require.NotNil(t, store.saved)
	assert.Equal(t, "R2", store.saved.RefreshToken)
	assert.Equal(t, "alice@example.org", store.saved.Email)
}

func TestResume_RejectedTokenClearsStore(t *testing.T) {
	captureLog(t)
	api := &fakeAPI{resumeErr: client.ErrUnauthorized}
	store := &fakeStore{saved: &session.Session{UserID: "u1", Email: "a@b.c", RefreshToken: "R1"}}
	a, _ := newTestApp(api, store, "")

	a.resume(context.Background())
	assert.False(t, a.isLoggedIn())
	assert.True(t, store.cleared)
	assert.Empty(t, a.email)
}

func TestResume_NothingStored(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(api, &fakeStore{}, "")
	a.resume(context.Background())
	assert.Empty(t, api.resumeToken)
}

func TestResume_LoadError(t *testing.T) {
	captureLog(t)
	api := &fakeAPI{}
	a, _ := newTestApp(api, &fakeStore{loadErr: errors.New("disk")}, "")
	a.resume(context.Background())
	assert.Empty(t, api.resumeToken)
}

func TestRun_ExitClosesEverything(t *testing.T) {
	captureLog(t)
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	api := &fakeAPI{}
	store := &fakeStore{}
	a, _ := newTestApp(api, store, "exit\n")

	a.Run(context.Background())
	assert.True(t, api.closeCalled)
	assert.True(t, store.closed)
	assert.Equal(t, ModeOnline, a.Mode)
}
