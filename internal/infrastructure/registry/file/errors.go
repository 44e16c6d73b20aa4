package fileregistry

import "errors"

var (
	// ErrDeploymentNotFound ...
	ErrDeploymentNotFound = errors.New("deployment not found")
	// ErrMissingToken is returned when a deployment file doesn't contain the
	// token contract.
	ErrMissingToken = errors.New("deployment does not contain the ZKK contract")
	// ErrUnknownEndpointID is returned when the endpoint id can be neither
	// read from the deployment nor derived from its network.
	ErrUnknownEndpointID = errors.New("unknown endpoint id for network")
)
