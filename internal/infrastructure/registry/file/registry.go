package fileregistry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zakoken/zkkd/internal/core/ports"
)

const (
	filePrefix = "zkk-"
	fileExt    = ".json"
)

type registry struct {
	dir string
}

// NewRegistry returns a Registry reading the deployment files
// zkk-<network>.json stored in dir.
func NewRegistry(dir string) (ports.Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid registry dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid registry dir: %s is not a directory", dir)
	}
	return &registry{dir}, nil
}

func (r *registry) GetDeployment(network string) (ports.Deployment, error) {
	filename := filepath.Join(r.dir, filePrefix+network+fileExt)
	d, err := readDeployment(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDeploymentNotFound, network)
		}
		return nil, err
	}
	return d, nil
}

func (r *registry) ListDeployments() ([]ports.Deployment, error) {
	filenames, err := filepath.Glob(filepath.Join(r.dir, filePrefix+"*"+fileExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(filenames)

	deployments := make([]ports.Deployment, 0, len(filenames))
	for _, filename := range filenames {
		d, err := readDeployment(filename)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, d)
	}
	return deployments, nil
}

func readDeployment(filename string) (*deployment, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	d := &deployment{}
	if err := json.Unmarshal(buf, d); err != nil {
		return nil, fmt.Errorf("invalid deployment file %s: %w", filename, err)
	}
	if len(d.Network) <= 0 {
		name := strings.TrimSuffix(filepath.Base(filename), fileExt)
		d.Network = strings.TrimPrefix(name, filePrefix)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, d.Network)
	}
	return d, nil
}
