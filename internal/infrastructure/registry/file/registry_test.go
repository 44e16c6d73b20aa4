package fileregistry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	fileregistry "github.com/zakoken/zkkd/internal/infrastructure/registry/file"
)

const (
	sepoliaDeployment = `{
  "network": "sepolia",
  "chainId": 11155111,
  "deployer": "0x9aB0b4C0a5bE3F8C8cE3F7c8F0c6aE4b1E5D1F2a",
  "timestamp": "2025-01-10T12:00:00.000Z",
  "contracts": {
    "ZKK": {
      "address": "0x7462f4984a1551ACeE53ecAF3E2CCC6ffd6Ae4e1",
      "name": "ZaKoKen",
      "symbol": "ZKK",
      "decimals": 18,
      "projectId": "zakoken-demo"
    }
  }
}`
	customDeployment = `{
  "network": "devnet",
  "chainId": 1337,
  "deployer": "0x9aB0b4C0a5bE3F8C8cE3F7c8F0c6aE4b1E5D1F2a",
  "timestamp": "2025-01-10T12:00:00.000Z",
  "contracts": {
    "ZKK": {"address": "0xdevnet", "endpointId": 50001}
  }
}`
	unknownDeployment = `{
  "network": "mainnet",
  "chainId": 1,
  "contracts": {"ZKK": {"address": "0xmainnet"}}
}`
)

func writeFile(t *testing.T, dir, name, content string) {
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err)
}

func TestGetDeployment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zkk-sepolia.json", sepoliaDeployment)
	writeFile(t, dir, "zkk-devnet.json", customDeployment)
	writeFile(t, dir, "zkk-mainnet.json", unknownDeployment)
	writeFile(t, dir, "zkk-broken.json", "{")

	registry, err := fileregistry.NewRegistry(dir)
	require.NoError(t, err)

	d, err := registry.GetDeployment("sepolia")
	require.NoError(t, err)
	require.Equal(t, "sepolia", d.GetNetwork())
	require.Equal(t, uint64(11155111), d.GetChainID())
	require.Equal(t, "0x7462f4984a1551ACeE53ecAF3E2CCC6ffd6Ae4e1", d.GetTokenAddress())
	require.Equal(t, uint32(40161), d.GetEndpointID())
	require.NotEmpty(t, d.GetDeployer())
	require.NotEmpty(t, d.GetTimestamp())

	d, err = registry.GetDeployment("devnet")
	require.NoError(t, err)
	require.Equal(t, uint32(50001), d.GetEndpointID())

	_, err = registry.GetDeployment("mainnet")
	require.ErrorIs(t, err, fileregistry.ErrUnknownEndpointID)

	_, err = registry.GetDeployment("baseSepolia")
	require.ErrorIs(t, err, fileregistry.ErrDeploymentNotFound)

	_, err = registry.GetDeployment("broken")
	require.Error(t, err)
}

func TestListDeployments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zkk-sepolia.json", sepoliaDeployment)
	writeFile(t, dir, "zkk-devnet.json", customDeployment)
	writeFile(t, dir, "usdc-sepolia.json", `{"contracts":{}}`)

	registry, err := fileregistry.NewRegistry(dir)
	require.NoError(t, err)

	deployments, err := registry.ListDeployments()
	require.NoError(t, err)
	require.Len(t, deployments, 2)
	require.Equal(t, "devnet", deployments[0].GetNetwork())
	require.Equal(t, "sepolia", deployments[1].GetNetwork())
}

func TestNewRegistry(t *testing.T) {
	_, err := fileregistry.NewRegistry(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
