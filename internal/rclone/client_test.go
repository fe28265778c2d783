package rclone

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saerrors "github.com/systmms/sarotate/internal/errors"
	"github.com/systmms/sarotate/internal/logging"
	"github.com/systmms/sarotate/internal/secure"
	"github.com/systmms/sarotate/tests/testutil"
)

func newTestClient(mock *testutil.MockCommandExecutor, opts ...Option) *Client {
	opts = append([]Option{WithExecutor(mock)}, opts...)
	return NewClient(logging.New(false, true), opts...)
}

func TestClient_ActiveCredential(t *testing.T) {
	t.Parallel()

	t.Run("json style reply", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.RcloneMockResponses{}.ConfigGet("/srv/sa/gdrive/sa-07.json"))

		client := newTestClient(mock)
		name, err := client.ActiveCredential(context.Background(), "localhost:5572", "gdrive")
		require.NoError(t, err)
		assert.Equal(t, "sa-07.json", name)

		calls := mock.GetCalls("rclone")
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"rc", "--rc-addr", "localhost:5572", "config/get", "name=gdrive"}, calls[0].Args)
	})

	t.Run("ini style reply", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{
			Stdout: []byte("[gdrive]\ntype = drive\nservice_account_file = /srv/sa/gdrive/sa-02.json\n"),
		})

		client := newTestClient(mock)
		name, err := client.ActiveCredential(context.Background(), "localhost:5572", "gdrive")
		require.NoError(t, err)
		assert.Equal(t, "sa-02.json", name)
	})

	t.Run("field absent", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{Stdout: []byte("{\"type\": \"drive\"}\n")})

		client := newTestClient(mock)
		_, err := client.ActiveCredential(context.Background(), "localhost:5572", "gdrive")
		require.Error(t, err)
		assert.Equal(t, saerrors.KindRecoveryLookupFailed, saerrors.KindOf(err))
	})

	t.Run("command failure", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{
			Stderr: []byte("connection refused"),
			Err:    errors.New("exit status 1"),
		})

		client := newTestClient(mock)
		_, err := client.ActiveCredential(context.Background(), "localhost:5572", "gdrive")
		require.Error(t, err)
		assert.Equal(t, saerrors.KindRecoveryLookupFailed, saerrors.KindOf(err))
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestClient_Swap(t *testing.T) {
	t.Parallel()

	t.Run("success with payload", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.RcloneMockResponses{}.BackendSet(
			"/srv/sa/gdrive/sa-02.json", "/srv/sa/gdrive/sa-01.json"))

		client := newTestClient(mock)
		result, err := client.Swap(context.Background(), "localhost:5572", "gdrive", "/srv/sa/gdrive/sa-02.json")
		require.NoError(t, err)
		assert.Equal(t, "sa-02.json", result.Current)
		assert.Equal(t, "sa-01.json", result.Previous)

		calls := mock.GetCalls("rclone")
		require.Len(t, calls, 1)
		assert.Equal(t, []string{
			"rc", "--rc-addr", "localhost:5572",
			"backend/command", "command=set", "fs=gdrive:",
			"-o", "service_account_file=/srv/sa/gdrive/sa-02.json",
		}, calls[0].Args)
	})

	t.Run("nonzero exit", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{
			Stderr: []byte("Failed to rc: connection refused"),
			Err:    errors.New("exit status 1"),
		})

		client := newTestClient(mock)
		_, err := client.Swap(context.Background(), "localhost:5572", "gdrive", "/srv/sa/x.json")
		require.Error(t, err)
		assert.Equal(t, saerrors.KindSwapCommandFailed, saerrors.KindOf(err))
	})

	t.Run("missing marker", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{Stdout: []byte("OK\n")})

		client := newTestClient(mock)
		_, err := client.Swap(context.Background(), "localhost:5572", "gdrive", "/srv/sa/x.json")
		require.Error(t, err)
		assert.Equal(t, saerrors.KindResultParseFailed, saerrors.KindOf(err))
	})

	t.Run("undecodable payload", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{Stdout: []byte("done\n---\nnot json\n")})

		client := newTestClient(mock)
		_, err := client.Swap(context.Background(), "localhost:5572", "gdrive", "/srv/sa/x.json")
		require.Error(t, err)
		assert.Equal(t, saerrors.KindResultParseFailed, saerrors.KindOf(err))
	})

	t.Run("payload without current", func(t *testing.T) {
		t.Parallel()
		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("rclone", testutil.MockResponse{Stdout: []byte("---\n{\"result\":{}}\n")})

		client := newTestClient(mock)
		_, err := client.Swap(context.Background(), "localhost:5572", "gdrive", "/srv/sa/x.json")
		require.Error(t, err)
		assert.Equal(t, saerrors.KindResultParseFailed, saerrors.KindOf(err))
	})
}

func TestClient_AuthAndConfigFlags(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddResponse("rclone", testutil.RcloneMockResponses{}.ConfigGet("/srv/sa/gdrive/sa-01.json"))

	pass := secure.NewBuffer([]byte("hunter2"))
	client := newTestClient(mock,
		WithAuth("admin", pass),
		WithConfigFile("/etc/rclone.conf"),
	)

	_, err := client.ActiveCredential(context.Background(), "localhost:5572", "gdrive")
	require.NoError(t, err)

	calls := mock.GetCalls("rclone")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"rc", "--rc-addr", "localhost:5572",
		"--rc-user", "admin",
		"--rc-pass", "hunter2",
		"--config", "/etc/rclone.conf",
		"config/get", "name=gdrive",
	}, calls[0].Args)
}

func TestScanCredentialField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   string
		found  bool
	}{
		{"ini form", "service_account_file = /a/b/c.json", "c.json", true},
		{"json form", `  "service_account_file": "/a/b/c.json",`, "c.json", true},
		{"bare name", "service_account_file = c.json", "c.json", true},
		{"empty value", "service_account_file = ", "", false},
		{"trailing slash", "service_account_file = /a/b/", "", false},
		{"unrelated text", "type = drive", "", false},
		{"field name only", "the service_account_file is elsewhere", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, found := scanCredentialField(tt.output)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}
