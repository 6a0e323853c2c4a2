package export

import (
	"context"
	"testing"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/mashery"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	packages  []mashery.Package
	services  map[string][]mashery.Service
	endpoints map[string][]mashery.Endpoint
	failOn    string
	err       error
	calls     []string
}

func newFakeCatalog(t *testing.T, packages string) *fakeCatalog {
	pkgs, err := mashery.ParsePackages([]byte(packages))
	require.Nil(t, err)
	return &fakeCatalog{
		packages:  pkgs,
		services:  map[string][]mashery.Service{},
		endpoints: map[string][]mashery.Endpoint{},
	}
}

func (f *fakeCatalog) withServices(t *testing.T, packageID, planID, body string) *fakeCatalog {
	services, err := mashery.ParseServices([]byte(body))
	require.Nil(t, err)
	f.services[packageID+"/"+planID] = services
	return f
}

func (f *fakeCatalog) withEndpoints(t *testing.T, serviceID, body string) *fakeCatalog {
	endpoints, err := mashery.ParseEndpoints([]byte(body))
	require.Nil(t, err)
	f.endpoints[serviceID] = endpoints
	return f
}

func (f *fakeCatalog) FetchPackages(ctx context.Context) ([]mashery.Package, error) {
	f.calls = append(f.calls, "packages")
	if f.failOn == "packages" {
		return nil, f.err
	}
	return f.packages, nil
}

func (f *fakeCatalog) FetchServices(ctx context.Context, packageID, planID string) ([]mashery.Service, error) {
	key := packageID + "/" + planID
	f.calls = append(f.calls, "services:"+key)
	if f.failOn == key {
		return nil, f.err
	}
	return f.services[key], nil
}

func (f *fakeCatalog) FetchEndpointDetails(ctx context.Context, serviceID string) ([]mashery.Endpoint, error) {
	f.calls = append(f.calls, "endpoints:"+serviceID)
	if f.failOn == serviceID {
		return nil, f.err
	}
	return f.endpoints[serviceID], nil
}
