package fabric

import (
	"context"
	"fmt"

	"github.com/netfabric/fabricctl/internal/controller"
)

// SegmentInfo is one row of the segment listing
type SegmentInfo struct {
	VLAN        string
	Name        string
	TrafficType string
	Layer2      bool
	Fabric      string
}

// SegmentColumns are the listing headings, in SegmentInfo field order
var SegmentColumns = []string{"VLAN", "Name", "Traffic type", "Layer 2", "Fabric"}

// Cells renders the segment for table output
func (s SegmentInfo) Cells() []string {
	layer2 := "False"
	if s.Layer2 {
		layer2 = "True"
	}
	return []string{s.VLAN, s.Name, s.TrafficType, layer2, s.Fabric}
}

// ListSegments returns every fabric segment with the name of the fabric it
// belongs to. A segment whose fabric no longer exists has an empty Fabric.
func ListSegments(ctx context.Context, client *controller.Client) ([]SegmentInfo, error) {
	domains, err := client.Get(ctx, PathConnectivityDomain, controller.WithVersion(VersionV2))
	if err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}
	segments, err := client.Get(ctx, PathSegment, controller.WithVersion(VersionV2))
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	items := segments.Items()
	out := make([]SegmentInfo, 0, len(items))
	for _, seg := range items {
		info := SegmentInfo{
			VLAN:        seg.String("vlanId"),
			Name:        seg.String("name"),
			TrafficType: seg.String("trafficType"),
			Layer2:      seg.Bool("isFloodAndLearn"),
		}
		if ref := seg.Object("connectivityDomain").String("idRef"); ref != "" {
			if domain := controller.Find(domains.Body, ref, "id"); domain != nil {
				info.Fabric = domain.String("name")
			}
		}
		out = append(out, info)
	}
	return out, nil
}
