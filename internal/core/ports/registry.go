package ports

// Deployment is the record of the token deployed on a network.
type Deployment interface {
	GetNetwork() string
	GetChainID() uint64
	GetDeployer() string
	GetTimestamp() string
	GetTokenAddress() string
	GetEndpointID() uint32
}

// Registry resolves the token deployments written by the deployment tooling.
type Registry interface {
	GetDeployment(network string) (Deployment, error)
	ListDeployments() ([]Deployment, error)
}
