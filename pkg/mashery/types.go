package mashery

import (
	"github.com/tidwall/gjson"
)

// Package - a Mashery package with its plans embedded, Raw holds the object as returned
type Package struct {
	ID    string
	Name  string
	Plans []Plan
	// HasPlans is false when the plans attribute is missing or null
	HasPlans bool
	// OrganizationName is organization.name, which may not exist
	OrganizationName gjson.Result
	Raw              gjson.Result
}

// Plan - a plan embedded in a package
type Plan struct {
	ID   string
	Name string
	Raw  gjson.Result
}

// Service - a service (API definition) attached to a package plan
type Service struct {
	ID   string
	Name string
	Raw  gjson.Result
}

// Endpoint - an endpoint of a service with the fields the export reads
type Endpoint struct {
	ID   string
	Name string
	Raw  gjson.Result
}

func parseObjects(resource string, body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse.FormatError(resource, "body is not valid JSON")
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, ErrMalformedResponse.FormatError(resource, "expected a JSON array")
	}

	objs := result.Array()
	for _, obj := range objs {
		if !obj.IsObject() {
			return nil, ErrMalformedResponse.FormatError(resource, "expected an array of objects")
		}
	}
	return objs, nil
}

func newPackage(obj gjson.Result) (Package, error) {
	pkg := Package{
		ID:               obj.Get("id").String(),
		Name:             obj.Get("name").String(),
		OrganizationName: obj.Get("organization.name"),
		Raw:              obj,
	}

	plans := obj.Get("plans")
	if !plans.Exists() || plans.Type == gjson.Null {
		return pkg, nil
	}
	if !plans.IsArray() {
		return Package{}, ErrMalformedResponse.FormatError("package "+pkg.ID, "plans is not an array")
	}

	pkg.HasPlans = true
	for _, p := range plans.Array() {
		if !p.IsObject() {
			return Package{}, ErrMalformedResponse.FormatError("package "+pkg.ID, "plans must hold objects")
		}
		pkg.Plans = append(pkg.Plans, Plan{
			ID:   p.Get("id").String(),
			Name: p.Get("name").String(),
			Raw:  p,
		})
	}
	return pkg, nil
}

func newService(obj gjson.Result) Service {
	return Service{
		ID:   obj.Get("id").String(),
		Name: obj.Get("name").String(),
		Raw:  obj,
	}
}

func newEndpoint(obj gjson.Result) Endpoint {
	return Endpoint{
		ID:   obj.Get("id").String(),
		Name: obj.Get("name").String(),
		Raw:  obj,
	}
}

func toPackages(objs []gjson.Result) ([]Package, error) {
	packages := make([]Package, 0, len(objs))
	for _, obj := range objs {
		pkg, err := newPackage(obj)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

func toServices(objs []gjson.Result) []Service {
	services := make([]Service, 0, len(objs))
	for _, obj := range objs {
		services = append(services, newService(obj))
	}
	return services
}

func toEndpoints(objs []gjson.Result) []Endpoint {
	endpoints := make([]Endpoint, 0, len(objs))
	for _, obj := range objs {
		endpoints = append(endpoints, newEndpoint(obj))
	}
	return endpoints
}

// ParsePackages - parses a packages response body the way FetchPackages reads each page
func ParsePackages(body []byte) ([]Package, error) {
	objs, err := parseObjects(ResourcePackages, body)
	if err != nil {
		return nil, err
	}
	return toPackages(objs)
}

// ParseServices - parses a services response body
func ParseServices(body []byte) ([]Service, error) {
	objs, err := parseObjects(ResourceServices, body)
	if err != nil {
		return nil, err
	}
	return toServices(objs), nil
}

// ParseEndpoints - parses an endpoints response body
func ParseEndpoints(body []byte) ([]Endpoint, error) {
	objs, err := parseObjects(ResourceEndpoints, body)
	if err != nil {
		return nil, err
	}
	return toEndpoints(objs), nil
}
