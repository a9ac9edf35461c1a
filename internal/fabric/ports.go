package fabric

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/reconcile"
	"github.com/netfabric/fabricctl/internal/tabular"
)

// PortImporter assigns fabric edge ports from port rows, one commit per device
type PortImporter struct {
	*Session

	// Generation selects the reconciliation profile. Auto detects it per
	// device from the DeviceInfo naming.
	Generation reconcile.Generation

	// DryRun computes and reports the changes without committing them
	DryRun bool
}

// PortReport is the outcome for one device
type PortReport struct {
	Host       string
	Generation reconcile.Generation
	Result     *reconcile.Result

	// Task is nil for dry runs
	Task controller.Task
}

// catalog holds the controller collections shared by every device
type catalog struct {
	devices        any
	authProfiles   []controller.Object
	scalableGroups []controller.Object
	segments       []controller.Object
}

// Run processes every host named in rows, in first-seen order. The first
// error stops the run. Devices committed before it stay committed.
func (p *PortImporter) Run(ctx context.Context, rows []tabular.Row) ([]PortReport, error) {
	cat, err := p.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var reports []PortReport
	for _, host := range tabular.Hostnames(rows) {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := p.importHost(ctx, cat, host, tabular.ForHost(rows, host))
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (p *PortImporter) fetchCatalog(ctx context.Context) (*catalog, error) {
	devices, err := p.Client.Get(ctx, PathNetworkDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	cat := &catalog{devices: devices.Body}
	if cat.authProfiles, err = p.items(ctx, PathSiteProfile, controller.WithParam("populated", "true")); err != nil {
		return nil, fmt.Errorf("failed to list authentication profiles: %w", err)
	}
	if cat.scalableGroups, err = p.items(ctx, PathScalableGroup, controller.WithVersion(VersionV2)); err != nil {
		return nil, fmt.Errorf("failed to list scalable groups: %w", err)
	}
	if cat.segments, err = p.items(ctx, PathSegment, controller.WithVersion(VersionV2)); err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	logging.Debug("Fetched port catalog",
		zap.Int("auth_profiles", len(cat.authProfiles)),
		zap.Int("scalable_groups", len(cat.scalableGroups)),
		zap.Int("segments", len(cat.segments)),
	)
	return cat, nil
}

func (p *PortImporter) importHost(ctx context.Context, cat *catalog, host string, rows []tabular.Row) (*PortReport, error) {
	fail := func(err error) error { return fmt.Errorf("%s: %w", host, err) }
	log := logging.With(zap.String("host", host))

	p.emit(Event{Kind: EventBegin, Subject: host})

	device, err := controller.FindOrFail(cat.devices, host, "hostname", "device")
	if err != nil {
		return nil, fail(err)
	}

	interfaces, err := p.items(ctx, PathDeviceInterfaces+device.String("id"))
	if err != nil {
		return nil, fail(fmt.Errorf("failed to list interfaces: %w", err))
	}

	deviceInfo, generation, err := p.deviceInfo(ctx, device)
	if err != nil {
		return nil, fail(err)
	}
	profile, err := reconcile.ProfileFor(generation)
	if err != nil {
		return nil, fail(err)
	}

	resolved, err := reconcile.Resolve(rows, reconcile.References{
		Interfaces:     interfaces,
		AuthProfiles:   cat.authProfiles,
		ScalableGroups: cat.scalableGroups,
		Segments:       cat.segments,
	})
	if err != nil {
		// already qualified with the host
		return nil, err
	}

	result, err := reconcile.Reconcile(deviceInfo, resolved, profile)
	if err != nil {
		return nil, fail(err)
	}

	report := &PortReport{Host: host, Generation: generation, Result: result}
	log.Info("Reconciled device",
		zap.String("generation", string(generation)),
		zap.Int("removed", len(result.Removed)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("added", len(result.Added)),
	)
	p.emit(Event{Kind: EventChanges, Subject: host, Result: result})

	if p.DryRun {
		log.Debug("Dry run, not committing", zap.String("data", result.DeviceInfo.JSON()))
		p.emit(Event{Kind: EventDryRun, Subject: host, Result: result})
		return report, nil
	}

	task, err := p.put(ctx, PathDeviceInfo, []any{result.DeviceInfo}, host)
	if err != nil {
		return nil, fail(err)
	}
	report.Task = task
	return report, nil
}

// deviceInfo fetches the DeviceInfo document of device. With generation auto
// the id key is tried before the hostname key; the key that answers decides
// the generation.
func (p *PortImporter) deviceInfo(ctx context.Context, device controller.Object) (controller.Object, reconcile.Generation, error) {
	candidates := []reconcile.Generation{p.Generation}
	if p.Generation == reconcile.GenerationAuto || p.Generation == "" {
		candidates = []reconcile.Generation{reconcile.GenerationV1, reconcile.GenerationV2}
	}

	for _, g := range candidates {
		profile, err := reconcile.ProfileFor(g)
		if err != nil {
			return nil, "", err
		}
		name := profile.DeviceInfoName(device)
		if name == "" {
			continue
		}
		docs, err := p.items(ctx, PathDeviceInfo, controller.WithVersion(VersionV2), controller.WithParam("name", name))
		if err != nil {
			return nil, "", fmt.Errorf("failed to get DeviceInfo %s: %w", name, err)
		}
		if len(docs) > 0 {
			logging.Debug("Found DeviceInfo",
				zap.String("name", name),
				zap.String("generation", string(g)),
			)
			return docs[0], g, nil
		}
	}

	return nil, "", controller.NewLookupError(
		fmt.Sprintf("no DeviceInfo for device %s (is it provisioned in the fabric?)", device.String("hostname")))
}
