package mashery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/api"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/tidwall/gjson"
	"github.com/tomnomnom/linkheader"
)

// Resource kinds, used in errors and as metric names
const (
	ResourcePackages  = "packages"
	ResourceServices  = "services"
	ResourceEndpoints = "endpoints"

	totalCountHeader = "X-Total-Count"
)

// Client - read-only access to the Mashery V3 catalog
type Client interface {
	FetchPackages(ctx context.Context) ([]Package, error)
	FetchServices(ctx context.Context, packageID, planID string) ([]Service, error)
	FetchEndpointDetails(ctx context.Context, serviceID string) ([]Endpoint, error)
}

type authenticator interface {
	Authenticate(req *api.Request) error
}

type bearerAuth struct {
	token string
}

// Authenticate - sets the bearer token on the request
func (b *bearerAuth) Authenticate(req *api.Request) error {
	if b.token == "" {
		return fmt.Errorf("no Mashery access token configured")
	}
	req.Headers["Authorization"] = "Bearer " + b.token
	return nil
}

type client struct {
	apiClient api.Client
	baseURL   string
	auth      authenticator
	pageSize  int
	registry  metrics.Registry
	logger    log.FieldLogger

	packageFields  []string
	serviceFields  []string
	endpointFields []string
}

// Option - optional settings for NewClient
type Option func(*client)

// WithPageSize - request collections in pages of size items, 0 disables paging
func WithPageSize(size int) Option {
	return func(c *client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithMetricsRegistry - records request counts and timings in registry
func WithMetricsRegistry(registry metrics.Registry) Option {
	return func(c *client) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// NewClient - creates a Mashery client sending through apiClient. The fields query of each
// resource is derived from the allow-lists plus the attributes the traversal needs.
func NewClient(apiClient api.Client, baseURL, token string, fields *config.FieldsConfiguration, options ...Option) Client {
	c := &client{
		apiClient: apiClient,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		auth:      &bearerAuth{token: token},
		registry:  metrics.NewRegistry(),
		logger: log.NewFieldLogger().
			WithComponent("masheryClient").
			WithPackage("mashery"),
		packageFields:  util.MergeUnique(fields.Package, []string{"plans", "organization"}),
		serviceFields:  util.MergeUnique(fields.Service, []string{"endpoints.id"}),
		endpointFields: util.MergeUnique(fields.Endpoint, fields.ArrayFieldNames()),
	}

	for _, o := range options {
		o(c)
	}
	return c
}

// NewClientFromConfig - creates the http client and the Mashery client from the connection config
func NewClientFromConfig(cfg config.MasheryConfig, fields *config.FieldsConfiguration, userAgent string, options ...Option) Client {
	apiClient := api.NewClient(cfg.GetTLSConfig(), cfg.GetProxyURL(),
		api.WithTimeout(cfg.GetTimeout()),
		api.WithUserAgent(userAgent),
	)
	options = append([]Option{WithPageSize(cfg.GetPageSize())}, options...)
	return NewClient(apiClient, cfg.GetURL(), cfg.GetToken(), fields, options...)
}

// FetchPackages - all packages with their plans and organization
func (c *client) FetchPackages(ctx context.Context) ([]Package, error) {
	objs, err := c.listAll(ctx, ResourcePackages, c.baseURL+"/packages", c.packageFields)
	if err != nil {
		return nil, err
	}

	packages, err := toPackages(objs)
	if err != nil {
		return nil, err
	}
	c.logger.WithField("count", len(packages)).Debug("fetched packages")
	return packages, nil
}

// FetchServices - the services attached to a plan of a package
func (c *client) FetchServices(ctx context.Context, packageID, planID string) ([]Service, error) {
	resourceURL := fmt.Sprintf("%s/packages/%s/plans/%s/services", c.baseURL, url.PathEscape(packageID), url.PathEscape(planID))
	objs, err := c.listAll(ctx, ResourceServices, resourceURL, c.serviceFields)
	if err != nil {
		return nil, err
	}

	services := toServices(objs)
	c.logger.
		WithField("package", packageID).
		WithField("plan", planID).
		WithField("count", len(services)).
		Debug("fetched services")
	return services, nil
}

// FetchEndpointDetails - the endpoints of a service with the configured detail fields
func (c *client) FetchEndpointDetails(ctx context.Context, serviceID string) ([]Endpoint, error) {
	resourceURL := fmt.Sprintf("%s/services/%s/endpoints", c.baseURL, url.PathEscape(serviceID))
	objs, err := c.listAll(ctx, ResourceEndpoints, resourceURL, c.endpointFields)
	if err != nil {
		return nil, err
	}

	endpoints := toEndpoints(objs)
	c.logger.
		WithField("service", serviceID).
		WithField("count", len(endpoints)).
		Debug("fetched endpoints")
	return endpoints, nil
}

func (c *client) newRequest(requestURL string, query map[string]string) (api.Request, error) {
	req := api.Request{
		Method:      api.GET,
		URL:         requestURL,
		QueryParams: query,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
	}
	return req, c.auth.Authenticate(&req)
}

type page struct {
	objs  []gjson.Result
	next  linkheader.Links
	total int
}

func (c *client) doOneRequest(ctx context.Context, resource, requestURL string, query map[string]string) (*page, error) {
	req, err := c.newRequest(requestURL, query)
	if err != nil {
		return nil, err
	}

	metrics.GetOrRegisterCounter("mashery.requests", c.registry).Inc(1)
	timer := metrics.GetOrRegisterTimer("mashery.request."+resource, c.registry)
	start := time.Now()
	res, err := c.apiClient.Send(ctx, req)
	timer.UpdateSince(start)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrMalformedResponse.FormatError(resource, "no response")
	}

	if res.Code < http.StatusOK || res.Code >= http.StatusMultipleChoices {
		return nil, handleError(res)
	}

	objs, err := parseObjects(resource, res.Body)
	if err != nil {
		return nil, err
	}

	headers := http.Header(res.Headers)
	p := &page{
		objs:  objs,
		next:  linkheader.Parse(headers.Get("Link")).FilterByRel("next"),
		total: -1,
	}
	if total, err := strconv.Atoi(strings.TrimSpace(headers.Get(totalCountHeader))); err == nil {
		p.total = total
	}
	return p, nil
}

// listAll fetches every item of a collection. Link rel=next headers are always followed,
// limit/offset paging is only used when a page size is set.
func (c *client) listAll(ctx context.Context, resource, resourceURL string, fields []string) ([]gjson.Result, error) {
	query := map[string]string{"fields": strings.Join(fields, ",")}
	requestURL := resourceURL
	followed := map[string]struct{}{}
	offset := 0
	lastPage := ""

	var objs []gjson.Result
	for {
		pageQuery := query
		if c.pageSize > 0 && query != nil {
			pageQuery = map[string]string{
				"fields": query["fields"],
				"limit":  strconv.Itoa(c.pageSize),
				"offset": strconv.Itoa(offset),
			}
		}

		p, err := c.doOneRequest(ctx, resource, requestURL, pageQuery)
		if err != nil {
			return nil, err
		}
		objs = append(objs, p.objs...)

		if len(p.next) > 0 {
			nextURL, err := c.resolveLink(requestURL, p.next[0].URL)
			if err != nil {
				return nil, err
			}
			if _, ok := followed[nextURL]; ok {
				return nil, ErrPagingLoop.FormatError(nextURL)
			}
			followed[nextURL] = struct{}{}
			// the link carries its own query
			requestURL = nextURL
			query = nil
			continue
		}

		if c.pageSize == 0 || query == nil || len(p.objs) < c.pageSize {
			break
		}
		if p.total >= 0 && len(objs) >= p.total {
			break
		}
		// a server ignoring offset answers every page with the first one
		ids := pageIDs(p.objs)
		if ids == lastPage {
			return nil, ErrPagingRepeated.FormatError(resource, offset)
		}
		lastPage = ids
		offset += c.pageSize
	}
	return objs, nil
}

func pageIDs(objs []gjson.Result) string {
	ids := make([]string, 0, len(objs))
	for _, obj := range objs {
		ids = append(ids, obj.Get("id").Raw)
	}
	return strings.Join(ids, ",")
}

func (c *client) resolveLink(current, link string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", ErrInvalidNextLink.FormatError(link, err)
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", ErrInvalidNextLink.FormatError(link, err)
	}
	return base.ResolveReference(ref).String(), nil
}
