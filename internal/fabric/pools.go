package fabric

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/tabular"
)

// PoolImporter creates global IP pools and attaches each one to a virtual
// network as a new segment
type PoolImporter struct {
	*Session
}

// PoolReport is the outcome for one pool row
type PoolReport struct {
	Pool        string
	PoolID      string
	Segment     string
	PoolTask    controller.Task
	SegmentTask controller.Task
}

// SegmentName derives the segment name from a pool CIDR and a virtual
// network name: "10.20.0.0/16" and "CAMPUS" give "10_20_0_0-CAMPUS".
func SegmentName(cidr, virtualNetwork string) string {
	network, _, _ := strings.Cut(strings.TrimSpace(cidr), "/")
	return strings.ReplaceAll(network, ".", "_") + "-" + virtualNetwork
}

// PoolRequest is the body that creates the pool of row
func PoolRequest(row tabular.Row) controller.Object {
	return controller.Object{
		"ipPoolCidr":    row.Get(tabular.ColPoolCIDR),
		"ipPoolName":    row.Get(tabular.ColPoolName),
		"dhcpServerIps": tabular.SplitList(row.Get(tabular.ColDHCPServers)),
		"dnsServerIps":  tabular.SplitList(row.Get(tabular.ColDNSServers)),
		"gateways":      tabular.SplitList(row.Get(tabular.ColGateway)),
		"overlapping":   tabular.ParseBool(row.Get(tabular.ColOverlapping)),
	}
}

// Run creates the pools in row order. The first error stops the run.
func (p *PoolImporter) Run(ctx context.Context, rows []tabular.Row) ([]PoolReport, error) {
	domains, err := p.items(ctx, PathConnectivityDomain, controller.WithVersion(VersionV2))
	if err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}
	networks, err := p.items(ctx, PathVirtualNetwork, controller.WithVersion(VersionV2))
	if err != nil {
		return nil, fmt.Errorf("failed to list virtual networks: %w", err)
	}
	contexts, err := p.items(ctx, PathVirtualNetworkContext, controller.WithVersion(VersionV2))
	if err != nil {
		return nil, fmt.Errorf("failed to list virtual network contexts: %w", err)
	}

	var reports []PoolReport
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		name := row.Get(tabular.ColPoolName)
		report, err := p.importPool(ctx, row, domains, networks, contexts)
		if err != nil {
			return reports, fmt.Errorf("%s: %w", name, err)
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (p *PoolImporter) importPool(ctx context.Context, row tabular.Row, domains, networks, contexts []controller.Object) (*PoolReport, error) {
	name := row.Get(tabular.ColPoolName)
	p.emit(Event{Kind: EventBegin, Subject: name, Message: "Adding pool " + name})

	domain, err := required(domains, row, tabular.ColFabric)
	if err != nil {
		return nil, err
	}
	vnContext, err := required(contexts, row, tabular.ColVirtualNetwork)
	if err != nil {
		return nil, err
	}
	vn := virtualNetwork(networks, domain.String("id"), vnContext.String("id"))
	if vn == nil {
		return nil, controller.NewLookupError(fmt.Sprintf("virtual network %s is not in fabric %s",
			row.Get(tabular.ColVirtualNetwork), row.Get(tabular.ColFabric)))
	}

	poolTask, err := p.post(ctx, PathIPPool, PoolRequest(row), name)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	report := &PoolReport{
		Pool:     name,
		PoolID:   poolTask.Progress(),
		Segment:  SegmentName(row.Get(tabular.ColPoolCIDR), row.Get(tabular.ColVirtualNetwork)),
		PoolTask: poolTask,
	}
	p.emit(Event{Kind: EventBegin, Subject: report.Segment, Message: "Adding segment " + report.Segment})

	segment := controller.Object{
		"type":                "Segment",
		"name":                report.Segment,
		"trafficType":         row.Get(tabular.ColTrafficType),
		"ipPoolId":            report.PoolID,
		"isFloodAndLearn":     tabular.ParseBool(row.Get(tabular.ColLayer2)),
		"isApProvisioning":    tabular.ParseBool(row.Get(tabular.ColAPProvision)),
		"isDefaultEnterprise": false,
		"connectivityDomain":  controller.Object{"idRef": domain.String("id")},
	}

	// vn stays in networks, so later rows for the same network commit this
	// segment again alongside theirs
	existing, _ := vn["segment"].([]any)
	vn.Set("segment", append(existing, segment))

	logging.Debug("Updating virtual network",
		zap.String("virtual_network", vn.String("name")),
		zap.String("segment", report.Segment),
	)
	report.SegmentTask, err = p.put(ctx, PathVirtualNetwork, []any{vn}, report.Segment)
	if err != nil {
		return nil, fmt.Errorf("failed to add segment %s: %w", report.Segment, err)
	}
	return report, nil
}

// required looks up the row's column value by name; an empty cell is an error
func required(items []controller.Object, row tabular.Row, column string) (controller.Object, error) {
	value := row.Get(column)
	if value == "" {
		return nil, controller.NewValidationError("row has no " + column)
	}
	obj, err := controller.Lookup(items, "name", value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", column, err)
	}
	return obj, nil
}

func virtualNetwork(networks []controller.Object, domainID, contextID string) controller.Object {
	for _, vn := range networks {
		if vn.String("namespace") == domainID && vn.String("virtualNetworkContextId") == contextID {
			return vn
		}
	}
	return nil
}
