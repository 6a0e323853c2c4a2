package mashery

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/api"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const (
	testHost    = "https://mashery.test"
	testBaseURL = testHost + "/v3/rest"
)

func newTestClient(options ...Option) Client {
	apiClient := api.NewClient(nil, "", api.WithTransport(gock.DefaultTransport))
	return NewClient(apiClient, testBaseURL+"/", "abc", config.NewFieldsConfig(), options...)
}

func TestFetchPackages(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/packages$").
		MatchParam("fields", "^id,name,production,plans,organization$").
		MatchHeader("Authorization", "^Bearer abc$").
		MatchHeader("Accept", "application/json").
		Reply(200).
		JSON(`[
			{"id":"p1","name":"Pkg","production":true,"organization":{"name":"Acme"},
			 "plans":[{"id":"pl1","name":"Gold"},{"id":"pl2","name":"Silver"}]},
			{"id":"p2","name":"NoPlans"},
			{"id":"p3","name":"NullPlans","plans":null,"organization":null},
			{"id":"p4","name":"EmptyPlans","plans":[],"organization":{}}
		]`)

	packages, err := newTestClient().FetchPackages(context.Background())
	require.Nil(t, err)
	require.Len(t, packages, 4)
	assert.True(t, gock.IsDone())

	assert.Equal(t, "p1", packages[0].ID)
	assert.Equal(t, "Pkg", packages[0].Name)
	assert.True(t, packages[0].HasPlans)
	assert.Equal(t, "Acme", packages[0].OrganizationName.String())
	require.Len(t, packages[0].Plans, 2)
	assert.Equal(t, "pl2", packages[0].Plans[1].ID)
	assert.Equal(t, "Silver", packages[0].Plans[1].Name)

	assert.False(t, packages[1].HasPlans)
	assert.False(t, packages[1].OrganizationName.Exists())
	assert.False(t, packages[2].HasPlans)
	assert.True(t, packages[3].HasPlans)
	assert.Empty(t, packages[3].Plans)
}

func TestFetchPackagesMalformed(t *testing.T) {
	testCases := map[string]string{
		"not an array":          `{"id":"p1"}`,
		"not json":              `<html>maintenance</html>`,
		"plans not an array":    `[{"id":"p1","plans":{"id":"pl1"}}]`,
		"plan not an object":    `[{"id":"p1","plans":["pl1"]}]`,
		"package not an object": `[null]`,
	}

	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testHost).
				Get("/v3/rest/packages$").
				Reply(200).
				BodyString(body)

			_, err := newTestClient().FetchPackages(context.Background())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestFetchStatusErrors(t *testing.T) {
	testCases := []struct {
		name    string
		code    int
		body    string
		check   func(err error) bool
		message string
	}{
		{
			name:    "bad request",
			code:    400,
			body:    `{"errorCode":400,"errorMessage":"Invalid fields"}`,
			check:   func(err error) bool { var e BadRequestError; return errors.As(err, &e) && e.Code == "400" },
			message: "Invalid fields",
		},
		{
			name:    "unauthorized",
			code:    401,
			body:    `{"errorCode":"ERR_401","errorMessage":"Invalid token"}`,
			check:   func(err error) bool { var e UnauthorizedError; return errors.As(err, &e) },
			message: "Invalid token",
		},
		{
			name:    "forbidden plain text",
			code:    403,
			body:    "<h1>Developer Over Qps</h1>",
			check:   func(err error) bool { var e ForbiddenError; return errors.As(err, &e) },
			message: "Developer Over Qps",
		},
		{
			name:    "not found",
			code:    404,
			check:   func(err error) bool { var e NotFoundError; return errors.As(err, &e) },
			message: "Not Found",
		},
		{
			name:    "too many requests",
			code:    429,
			check:   func(err error) bool { var e TooManyRequestsError; return errors.As(err, &e) },
			message: "Too Many Requests",
		},
		{
			name:    "internal server error",
			code:    500,
			check:   func(err error) bool { var e InternalServerError; return errors.As(err, &e) },
			message: "Internal Server Error",
		},
		{
			name: "unexpected",
			code: 502,
			check: func(err error) bool {
				var e UnexpectedError
				return errors.As(err, &e) && e.Status == 502
			},
			message: "unexpected code 502",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testHost).
				Get("/v3/rest/services/svc1/endpoints$").
				Reply(tc.code).
				BodyString(tc.body)

			_, err := newTestClient().FetchEndpointDetails(context.Background(), "svc1")
			require.NotNil(t, err)
			assert.True(t, tc.check(err), err.Error())
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestFetchServicesAndEndpoints(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/packages/p1/plans/pl1/services$").
		MatchParam("fields", "^id,name,version,endpoints.id$").
		Reply(200).
		JSON(`[{"id":"s1","name":"Svc","version":"1.0","endpoints":[{"id":"e1"},{"id":"e2"}]}]`)

	gock.New(testHost).
		Get("/v3/rest/services/s1/endpoints$").
		MatchParam("fields", "^id,name,type,.*,httpsClientProfile,supportedHttpMethods,apiMethodDetectionLocations,oauthGrantTypes,apiKeyValueLocations,publicDomains,systemDomains$").
		Reply(200).
		JSON(`[{"id":"e1","name":"Ep","supportedHttpMethods":["get","post"]}]`)

	c := newTestClient()
	services, err := c.FetchServices(context.Background(), "p1", "pl1")
	require.Nil(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "s1", services[0].ID)
	assert.Equal(t, "Svc", services[0].Name)
	assert.Len(t, services[0].Raw.Get("endpoints").Array(), 2)
	assert.Equal(t, "1.0", services[0].Raw.Get("version").String())

	endpoints, err := c.FetchEndpointDetails(context.Background(), "s1")
	require.Nil(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "e1", endpoints[0].ID)
	assert.Equal(t, "Ep", endpoints[0].Name)
	assert.True(t, gock.IsDone())
}

func TestFetchEscapesPathSegments(t *testing.T) {
	mock := &api.MockHTTPClient{}
	mock.SetResponses([]api.MockResponse{
		{RespData: "[]", RespCode: 200},
		{RespData: "[]", RespCode: 200},
	})
	c := NewClient(mock, testBaseURL, "abc", config.NewFieldsConfig())

	_, err := c.FetchServices(context.Background(), "pkg/1", "plan 2")
	require.Nil(t, err)
	_, err = c.FetchEndpointDetails(context.Background(), "svc?x")
	require.Nil(t, err)

	require.Len(t, mock.Requests, 2)
	assert.Equal(t, testBaseURL+"/packages/pkg%2F1/plans/plan%202/services", mock.Requests[0].URL)
	assert.Equal(t, testBaseURL+"/services/svc%3Fx/endpoints", mock.Requests[1].URL)
	assert.Equal(t, "Bearer abc", mock.Requests[0].Headers["Authorization"])
	assert.Equal(t, "application/json", mock.Requests[0].Headers["Content-Type"])
	assert.Equal(t, "id,name,version,endpoints.id", mock.Requests[0].QueryParams["fields"])
	_, hasLimit := mock.Requests[0].QueryParams["limit"]
	assert.False(t, hasLimit, "paging is off by default")
}

func TestFetchNoToken(t *testing.T) {
	mock := &api.MockHTTPClient{}
	c := NewClient(mock, testBaseURL, "", config.NewFieldsConfig())
	_, err := c.FetchPackages(context.Background())
	assert.NotNil(t, err)
	assert.Empty(t, mock.Requests)
}

func TestFetchTransportError(t *testing.T) {
	mock := &api.MockHTTPClient{ResponseError: errors.New("dial tcp: connection refused")}
	c := NewClient(mock, testBaseURL, "abc", config.NewFieldsConfig())
	_, err := c.FetchPackages(context.Background())
	assert.EqualError(t, err, "dial tcp: connection refused")
}

func TestFetchOffsetPaging(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/packages$").
		MatchParam("limit", "^2$").
		MatchParam("offset", "^0$").
		Reply(200).
		SetHeader("X-Total-Count", "5").
		JSON(`[{"id":"p1"},{"id":"p2"}]`)
	gock.New(testHost).
		Get("/v3/rest/packages$").
		MatchParam("limit", "^2$").
		MatchParam("offset", "^2$").
		Reply(200).
		SetHeader("X-Total-Count", "5").
		JSON(`[{"id":"p3"},{"id":"p4"}]`)
	gock.New(testHost).
		Get("/v3/rest/packages$").
		MatchParam("limit", "^2$").
		MatchParam("offset", "^4$").
		Reply(200).
		SetHeader("X-Total-Count", "5").
		JSON(`[{"id":"p5"}]`)

	registry := metrics.NewRegistry()
	packages, err := newTestClient(WithPageSize(2), WithMetricsRegistry(registry)).FetchPackages(context.Background())
	require.Nil(t, err)
	require.Len(t, packages, 5)
	assert.Equal(t, "p5", packages[4].ID)
	assert.True(t, gock.IsDone())

	assert.Equal(t, int64(3), metrics.GetOrRegisterCounter("mashery.requests", registry).Count())
	assert.Equal(t, int64(3), metrics.GetOrRegisterTimer("mashery.request.packages", registry).Count())
}

func TestFetchOffsetPagingStopsOnTotal(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/packages$").
		MatchParam("offset", "^0$").
		Reply(200).
		SetHeader("X-Total-Count", "2").
		JSON(`[{"id":"p1"},{"id":"p2"}]`)

	packages, err := newTestClient(WithPageSize(2)).FetchPackages(context.Background())
	require.Nil(t, err)
	assert.Len(t, packages, 2)
	assert.True(t, gock.IsDone())
}

func TestFetchOffsetPagingRepeatedPage(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/packages$").
		Times(2).
		Reply(200).
		JSON(`[{"id":"p1"},{"id":"p2"}]`)

	registry := metrics.NewRegistry()
	_, err := newTestClient(WithPageSize(2), WithMetricsRegistry(registry)).FetchPackages(context.Background())
	assert.ErrorIs(t, err, ErrPagingRepeated)
	assert.Contains(t, err.Error(), "offset 2")
	assert.True(t, gock.IsDone())
	assert.Equal(t, int64(2), metrics.GetOrRegisterCounter("mashery.requests", registry).Count())
}

func TestFetchFollowsLinkHeader(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/services/s1/endpoints$").
		MatchParam("fields", "^id,name").
		Reply(200).
		SetHeader("Link", `<https://mashery.test/v3/rest/services/s1/endpoints?page=2>; rel="next"`).
		JSON(`[{"id":"e1"}]`)
	gock.New(testHost).
		Get("/v3/rest/services/s1/endpoints$").
		MatchParam("page", "^2$").
		Reply(200).
		SetHeader("Link", `</v3/rest/services/s1/endpoints?page=3>; rel="next", </v3/rest/services/s1/endpoints?page=1>; rel="prev"`).
		JSON(`[{"id":"e2"}]`)
	gock.New(testHost).
		Get("/v3/rest/services/s1/endpoints$").
		MatchParam("page", "^3$").
		Reply(200).
		JSON(`[{"id":"e3"}]`)

	endpoints, err := newTestClient().FetchEndpointDetails(context.Background(), "s1")
	require.Nil(t, err)
	require.Len(t, endpoints, 3)
	assert.Equal(t, "e3", endpoints[2].ID)
	assert.True(t, gock.IsDone())
}

func TestFetchLinkLoop(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/v3/rest/packages$").
		Times(2).
		Reply(200).
		SetHeader("Link", `<https://mashery.test/v3/rest/packages?page=2>; rel="next"`).
		JSON(`[{"id":"p1"}]`)

	_, err := newTestClient().FetchPackages(context.Background())
	assert.ErrorIs(t, err, ErrPagingLoop)
}

func TestHandleErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	err := handleError(&api.Response{Code: http.StatusForbidden, Body: long})
	var forbidden ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	assert.Len(t, forbidden.Message, maxErrorBodyLength+3)
}
