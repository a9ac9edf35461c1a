package fabric

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/tabular"
)

const poolHeader = "IP Pool Name,IP Pool CIDR,DHCP Servers,DNS Servers,Gateway,Overlapping,Fabric,Virtual Network,Traffic Type,Layer 2,AP Provision\n"

func poolController(t *testing.T) (*fakeController, *controller.Client) {
	t.Helper()
	fc, client := newFakeController(t)

	fc.route("GET /api/v2/data/customer-facing-service/ConnectivityDomain", `{"response":[
		{"id":"cd-1","name":"Campus"},
		{"id":"cd-2","name":"Branch"}
	]}`)
	fc.route("GET /api/v2/data/customer-facing-service/virtualnetworkcontext", `{"response":[
		{"id":"vnc-1","name":"CAMPUS"},
		{"id":"vnc-2","name":"GUEST"}
	]}`)
	fc.route("GET /api/v2/data/customer-facing-service/VirtualNetwork", `{"response":[
		{"id":"vn-b","name":"Branch_CAMPUS","namespace":"cd-2","virtualNetworkContextId":"vnc-1","segment":[]},
		{"id":"vn-c","name":"Campus_CAMPUS","namespace":"cd-1","virtualNetworkContextId":"vnc-1",
		 "segment":[{"idRef":"seg-old"}]}
	]}`)
	fc.progress["task-1"] = "pool-uuid-1"
	fc.progress["task-3"] = "pool-uuid-2"
	return fc, client
}

func TestSegmentName(t *testing.T) {
	assert.Equal(t, "10_20_0_0-CAMPUS", SegmentName("10.20.0.0/16", "CAMPUS"))
	assert.Equal(t, "192_168_1_0-GUEST", SegmentName(" 192.168.1.0/24", "GUEST"))
	assert.Equal(t, "10_0_0_1-VN", SegmentName("10.0.0.1", "VN"))
}

func TestPoolRequest(t *testing.T) {
	rows := readRows(t, poolHeader+"Campus-Data,10.20.0.0/16,\"10.1.1.10, 10.1.1.11\",10.1.1.53,10.20.0.1,TRUE,Campus,CAMPUS,DATA,false,false\n")

	req := PoolRequest(rows[0])
	assert.Equal(t, "10.20.0.0/16", req["ipPoolCidr"])
	assert.Equal(t, "Campus-Data", req["ipPoolName"])
	assert.Equal(t, []string{"10.1.1.10", "10.1.1.11"}, req["dhcpServerIps"])
	assert.Equal(t, []string{"10.1.1.53"}, req["dnsServerIps"])
	assert.Equal(t, []string{"10.20.0.1"}, req["gateways"])
	assert.Equal(t, true, req["overlapping"])

	empty := PoolRequest(tabular.Row{})
	assert.Equal(t, []string{}, empty["gateways"])
	assert.Equal(t, false, empty["overlapping"])
}

func TestPoolImporter_Run(t *testing.T) {
	fc, client := poolController(t)
	session, ev := newSession(client)

	rows := readRows(t, poolHeader+
		"Campus-Data,10.20.0.0/16,10.1.1.10,10.1.1.53,10.20.0.1,false,Campus,CAMPUS,DATA,true,false\n"+
		"Campus-AP,10.30.0.0/24,10.1.1.10,10.1.1.53,10.30.0.1,false,Campus,CAMPUS,DATA,false,true\n")

	reports, err := (&PoolImporter{Session: session}).Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "Campus-Data", reports[0].Pool)
	assert.Equal(t, "pool-uuid-1", reports[0].PoolID)
	assert.Equal(t, "10_20_0_0-CAMPUS", reports[0].Segment)
	assert.Equal(t, "pool-uuid-2", reports[1].PoolID)

	writes := fc.writes()
	require.Len(t, writes, 4)
	assert.Equal(t, http.MethodPost, writes[0].Method)
	assert.Equal(t, "/api/v2/ippool", writes[0].Path)
	assert.Equal(t, http.MethodPut, writes[1].Method)
	assert.Equal(t, "/api/v2/data/customer-facing-service/VirtualNetwork", writes[1].Path)

	pool, ok := writes[0].Body.(controller.Object)
	require.True(t, ok)
	assert.Equal(t, "Campus-Data", pool.String("ipPoolName"))

	vns := bodyObjects(t, writes[1])
	require.Len(t, vns, 1)
	assert.Equal(t, "vn-c", vns[0].String("id"))
	segments := vns[0].Objects("segment")
	require.Len(t, segments, 2)
	assert.Equal(t, "seg-old", segments[0].String("idRef"))

	seg := segments[1]
	assert.Equal(t, "Segment", seg.String("type"))
	assert.Equal(t, "10_20_0_0-CAMPUS", seg.String("name"))
	assert.Equal(t, "DATA", seg.String("trafficType"))
	assert.Equal(t, "pool-uuid-1", seg.String("ipPoolId"))
	assert.True(t, seg.Bool("isFloodAndLearn"))
	assert.False(t, seg.Bool("isApProvisioning"))
	assert.Equal(t, false, seg["isDefaultEnterprise"])
	assert.Equal(t, "cd-1", seg.Object("connectivityDomain").String("idRef"))

	// the second pool's commit carries the first segment too
	second := bodyObjects(t, writes[3])[0].Objects("segment")
	require.Len(t, second, 3)
	assert.Equal(t, "10_30_0_0-CAMPUS", second[2].String("name"))
	assert.True(t, second[2].Bool("isApProvisioning"))

	assert.Equal(t, []EventKind{EventBegin, EventWaiting, EventCommitted}, ev.kinds("Campus-Data"))
	assert.Equal(t, []EventKind{EventBegin, EventWaiting, EventCommitted}, ev.kinds("10_20_0_0-CAMPUS"))
}

func TestPoolImporter_LookupFailures(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
		is   func(error) bool
	}{
		{"unknown fabric", "P,10.0.0.0/24,,,,false,Nowhere,CAMPUS,DATA,false,false", "Nowhere not found", controller.IsLookupError},
		{"unknown virtual network", "P,10.0.0.0/24,,,,false,Campus,IOT,DATA,false,false", "IOT not found", controller.IsLookupError},
		{"network not in fabric", "P,10.0.0.0/24,,,,false,Campus,GUEST,DATA,false,false", "virtual network GUEST is not in fabric Campus", controller.IsLookupError},
		{"missing fabric", "P,10.0.0.0/24,,,,false,,CAMPUS,DATA,false,false", "row has no Fabric", controller.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, client := poolController(t)
			session, _ := newSession(client)

			_, err := (&PoolImporter{Session: session}).Run(context.Background(), readRows(t, poolHeader+tt.row+"\n"))
			require.Error(t, err)
			assert.True(t, tt.is(err), "unexpected error type: %v", err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "P: ")
			assert.Empty(t, fc.writes())
		})
	}
}

func TestPoolImporter_PoolTaskFails(t *testing.T) {
	fc, client := poolController(t)
	fc.failPaths["/api/v2/ippool"] = true
	session, _ := newSession(client)

	rows := readRows(t, poolHeader+"Campus-Data,10.20.0.0/16,,,,false,Campus,CAMPUS,DATA,false,false\n")

	reports, err := (&PoolImporter{Session: session}).Run(context.Background(), rows)
	require.Error(t, err)
	assert.True(t, controller.IsTaskError(err))
	assert.Contains(t, err.Error(), "failed to create pool")
	assert.Empty(t, reports)

	// the virtual network is left alone
	assert.Len(t, fc.writes(), 1)
}
