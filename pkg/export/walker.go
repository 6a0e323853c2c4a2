package export

import (
	"context"
	"fmt"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/mashery"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	metrics "github.com/rcrowley/go-metrics"
)

// Metric names recorded while walking the catalog
const (
	MetricPackages  = "export.packages"
	MetricPlans     = "export.plans"
	MetricServices  = "export.services"
	MetricEndpoints = "export.endpoints"
	MetricRows      = "export.rows"
)

// RowHandler - receives each flattened row, an error stops the walk
type RowHandler func(row *Row) error

// Walker - visits packages, plans, services and endpoints in order and emits one row per endpoint
type Walker struct {
	client    mashery.Client
	flattener *Flattener
	registry  metrics.Registry
	logger    log.FieldLogger
}

// NewWalker -
func NewWalker(client mashery.Client, flattener *Flattener, registry metrics.Registry) *Walker {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &Walker{
		client:    client,
		flattener: flattener,
		registry:  registry,
		logger: log.NewFieldLogger().
			WithComponent("walker").
			WithPackage("export"),
	}
}

// Walk - fetches the catalog one call at a time and hands every row to handle.
// Any fetch error ends the walk.
func (w *Walker) Walk(ctx context.Context, handle RowHandler) error {
	packages, err := w.client.FetchPackages(ctx)
	if err != nil {
		return fmt.Errorf("fetching packages: %w", err)
	}
	w.count(MetricPackages, len(packages))

	for _, pkg := range packages {
		if !pkg.HasPlans {
			w.logger.WithField("package", pkg.ID).Debug("package has no plans, skipping")
			continue
		}
		w.count(MetricPlans, len(pkg.Plans))

		for _, plan := range pkg.Plans {
			if err := w.walkPlan(ctx, pkg, plan, handle); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) walkPlan(ctx context.Context, pkg mashery.Package, plan mashery.Plan, handle RowHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	services, err := w.client.FetchServices(ctx, pkg.ID, plan.ID)
	if err != nil {
		return fmt.Errorf("fetching services of package %s plan %s: %w", pkg.ID, plan.ID, err)
	}
	w.count(MetricServices, len(services))

	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return err
		}

		endpoints, err := w.client.FetchEndpointDetails(ctx, svc.ID)
		if err != nil {
			return fmt.Errorf("fetching endpoints of service %s: %w", svc.ID, err)
		}
		w.count(MetricEndpoints, len(endpoints))

		for _, ep := range endpoints {
			if err := handle(w.flattener.Flatten(pkg, plan, svc, ep)); err != nil {
				return err
			}
			w.count(MetricRows, 1)
		}
	}
	return nil
}

func (w *Walker) count(name string, n int) {
	metrics.GetOrRegisterCounter(name, w.registry).Inc(int64(n))
}
