package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, input string, env map[string]string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	if env == nil {
		env = map[string]string{}
	}
	if _, ok := env["XDG_CONFIG_HOME"]; !ok {
		env["XDG_CONFIG_HOME"] = t.TempDir()
	}
	return &App{
		In:         strings.NewReader(input),
		Out:        out,
		Err:        errOut,
		GetEnv:     envFrom(env),
		IsTerminal: func() bool { return false },
	}, out, errOut
}

func TestConfigCommandAppliesFlags(t *testing.T) {
	app, out, _ := newTestApp(t, "", nil)
	cmd := NewRootCmd(app)
	cmd.SetArgs([]string{"config", "--server", "http://flag.test", "--poll-interval", "750ms", "-s", "9:16"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "server_url: http://flag.test")
	assert.Contains(t, out.String(), "poll_interval: 750ms")
	assert.Contains(t, out.String(), "9:16")
}

func TestConfigCommandRejectsBadScaleFlag(t *testing.T) {
	app, _, _ := newTestApp(t, "", nil)
	cmd := NewRootCmd(app)
	cmd.SetArgs([]string{"config", "--scale", "2:1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_scale")
}

func TestRootRunsQuietREPL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"authenticated":false}`))
	}))
	defer srv.Close()

	app, out, _ := newTestApp(t, "whoami\nscales\nquit\n", nil)
	cmd := NewRootCmd(app)
	cmd.SetArgs([]string{"--server", srv.URL, "--output", filepath.Join(t.TempDir(), "out")})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Not logged in.")
	assert.Contains(t, out.String(), "* 1:1")
	assert.Contains(t, out.String(), "Goodbye!")
	assert.NotContains(t, out.String(), "studio>")
}

func TestRootExitsCleanlyOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	pr, pw := io.Pipe()
	defer pw.Close()
	app, _, _ := newTestApp(t, "", nil)
	app.In = pr

	ctx, cancel := context.WithCancel(context.Background())
	cmd := NewRootCmd(app)
	cmd.SetArgs([]string{"--server", srv.URL, "--output", t.TempDir()})

	result := make(chan error, 1)
	go func() { result <- cmd.ExecuteContext(ctx) }()
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("studio did not exit after cancel")
	}
}
