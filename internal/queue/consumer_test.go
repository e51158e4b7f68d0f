package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "auth.log")
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	for _, ev := range []AuthEvent{
		{Type: EventAccountRegistered, AccountID: "id-1", Email: "alice@x.com", Provider: "local", RemoteIP: "10.0.0.1", OccurredAt: at},
		{Type: EventFederatedLogin, AccountID: "id-2", Email: "bob@x.com", Provider: "google", OccurredAt: at},
	} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, handleMessage(body, path))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2026-10-17T09:30:00Z] account.registered | account_id=id-1 | email="alice@x.com" | provider=local | ip=10.0.0.1`, lines[0])
	assert.Equal(t, `[2026-10-17T09:30:00Z] account.federated_login | account_id=id-2 | email="bob@x.com" | provider=google | ip=-`, lines[1])
}

func TestHandleMessage_RejectsBadPayloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.log")

	assert.Error(t, handleMessage([]byte("{not json"), path))
	assert.Error(t, handleMessage([]byte(`{"account_id":"id-1"}`), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing may be written for rejected messages")
}
