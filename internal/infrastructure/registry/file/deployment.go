package fileregistry

import "github.com/zakoken/zkkd/internal/core/domain"

const tokenContract = "ZKK"

type contract struct {
	Address    string `json:"address"`
	EndpointID uint32 `json:"endpointId,omitempty"`
}

type deployment struct {
	Network   string              `json:"network"`
	ChainID   uint64              `json:"chainId"`
	Deployer  string              `json:"deployer"`
	Timestamp string              `json:"timestamp"`
	Contracts map[string]contract `json:"contracts"`
}

func (d deployment) validate() error {
	token, ok := d.Contracts[tokenContract]
	if !ok || len(token.Address) <= 0 {
		return ErrMissingToken
	}
	if d.GetEndpointID() == 0 {
		return ErrUnknownEndpointID
	}
	return nil
}

func (d deployment) GetNetwork() string {
	return d.Network
}

func (d deployment) GetChainID() uint64 {
	return d.ChainID
}

func (d deployment) GetDeployer() string {
	return d.Deployer
}

func (d deployment) GetTimestamp() string {
	return d.Timestamp
}

func (d deployment) GetTokenAddress() string {
	return d.Contracts[tokenContract].Address
}

// GetEndpointID returns the endpoint id stored in the deployment, or the
// one of its network if known.
func (d deployment) GetEndpointID() uint32 {
	if id := d.Contracts[tokenContract].EndpointID; id > 0 {
		return id
	}
	id, _ := domain.DomainIDForNetwork(d.Network)
	return id
}
