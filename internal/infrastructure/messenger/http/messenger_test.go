package httpmessenger_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/infrastructure/messenger"
	httpmessenger "github.com/zakoken/zkkd/internal/infrastructure/messenger/http"
)

const (
	srcDomain = uint32(40161)
	dstDomain = uint32(40245)
	token     = "relayer-token"
)

func newServer(t *testing.T, status int, received *[]messenger.Payload) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, httpmessenger.ReceivePath, r.URL.Path)
			require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			payload, err := messenger.DecodePayload(body)
			require.NoError(t, err)
			*received = append(*received, *payload)

			w.WriteHeader(status)
			//nolint
			w.Write([]byte(`{"error":"message already processed"}`))
		},
	))
}

func TestDeliver(t *testing.T) {
	msg, err := domain.NewOutboundMessage(srcDomain, dstDomain, "0xsrc", "bob", 10)
	require.NoError(t, err)

	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"already consumed", http.StatusConflict, false},
		{"untrusted", http.StatusForbidden, true},
		{"internal error", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			received := make([]messenger.Payload, 0)
			server := newServer(t, tt.status, &received)
			defer server.Close()

			m, err := httpmessenger.NewMessenger(
				map[uint32]string{dstDomain: server.URL + "/"},
				map[uint32]string{dstDomain: token}, 0,
			)
			require.NoError(t, err)
			defer m.Close()

			err = m.Deliver(context.Background(), *msg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, received, 1)
			require.Equal(t, msg.ID, received[0].ID)
			require.Equal(t, "10", received[0].Amount)
		})
	}
}

func TestDeliverUnknownDomain(t *testing.T) {
	_, err := httpmessenger.NewMessenger(nil, nil, 0)
	require.ErrorIs(t, err, httpmessenger.ErrMissingEndpoints)

	m, err := httpmessenger.NewMessenger(
		map[uint32]string{dstDomain: "http://localhost:1"}, nil, 0,
	)
	require.NoError(t, err)

	msg, err := domain.NewOutboundMessage(srcDomain, 30101, "0xsrc", "bob", 10)
	require.NoError(t, err)
	err = m.Deliver(context.Background(), *msg)
	require.ErrorIs(t, err, httpmessenger.ErrUnknownDomain)
}
