package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
	fileregistry "github.com/zakoken/zkkd/internal/infrastructure/registry/file"
	"github.com/zakoken/zkkd/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/zakoken/zkkd/internal/interfaces/http"
	"github.com/zakoken/zkkd/pkg/jwtutil"
)

const deploymentJSON = `{
  "network": "baseSepolia",
  "chainId": 84532,
  "deployer": "0x3AE0a8f2CCfc9a8d8a5b7D0b4D2B1f9e2F4E4B12",
  "timestamp": "2025-01-10T10:00:00.000Z",
  "contracts": {
    "ZKK": {"address": "0x7462f4984a1551ACeE53ecAF3E2CCC6ffd6Ae4e1"}
  }
}`

func TestWriteTokens(t *testing.T) {
	dir := t.TempDir()
	secret := "6f2c0d8a1e4b7c9d3a5f8e2b1c4d7a9f"
	roles := application.Roles{Operator: "operator", Relayer: "relayer"}

	err := writeTokens(secret, dir, roles)
	require.NoError(t, err)

	signer, err := jwtutil.NewSigner(secret, httpinterface.Issuer)
	require.NoError(t, err)

	for file, subject := range map[string]string{
		operatorTokenFile: "operator",
		relayerTokenFile:  "relayer",
	} {
		buf, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err)
		got, err := signer.Verify(string(buf))
		require.NoError(t, err)
		require.Equal(t, subject, got)
	}
}

func TestConfigurePeers(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(
		filepath.Join(dir, "zkk-baseSepolia.json"), []byte(deploymentJSON), 0644,
	)
	require.NoError(t, err)

	registry, err := fileregistry.NewRegistry(dir)
	require.NoError(t, err)

	roles := application.Roles{Operator: "operator", Relayer: "relayer"}
	transportSvc, err := application.NewTransportService(
		inmemory.NewRepoManager(), roles,
		40161, "0x1b2Cb1bD5f5Bd3d1E0A6E3c1B9e9D1f1E0A1b2C3",
	)
	require.NoError(t, err)

	ctx := context.Background()
	err = configurePeers(
		ctx, transportSvc, registry, roles.Operator, []string{"baseSepolia"},
	)
	require.NoError(t, err)

	peer, err := transportSvc.GetPeer(ctx, 40245)
	require.NoError(t, err)
	require.Equal(t, "0x7462f4984a1551ACeE53ecAF3E2CCC6ffd6Ae4e1", peer.Address)

	err = configurePeers(
		ctx, transportSvc, registry, roles.Operator, []string{"sepolia"},
	)
	require.ErrorIs(t, err, fileregistry.ErrDeploymentNotFound)

	err = configurePeers(ctx, transportSvc, nil, roles.Operator, nil)
	require.Error(t, err)

	_, err = transportSvc.GetPeer(ctx, 40161)
	require.ErrorIs(t, err, domain.ErrPeerNotFound)
}
