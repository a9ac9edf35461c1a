package reconcile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/logging"
)

// DeviceInfo and interface entry fields
const (
	FieldInterfaces          = "deviceInterfaceInfo"
	FieldInterfaceID         = "interfaceId"
	FieldRole                = "role"
	FieldSegment             = "segment"
	FieldIDRef               = "idRef"
	FieldAuthProfileID       = "authenticationProfileId"
	FieldAuthProfile         = "authenticationProfile"
	FieldScalableGroupID     = "scalableGroupId"
	FieldConnectedDeviceType = "connectedDeviceType"
	FieldNotSubtended        = "notSubtended"
)

// RoleLAN is the role of every interface entry this tool creates
const RoleLAN = "LAN"

// Action is what a row does to its interface
type Action int

const (
	ActionRemove Action = iota
	ActionUpdate
	ActionAdd
)

func (a Action) String() string {
	switch a {
	case ActionRemove:
		return "remove"
	case ActionUpdate:
		return "update"
	case ActionAdd:
		return "add"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// Row is the desired state of one interface with its references resolved.
// A nil reference means the cell was empty.
type Row struct {
	Host          string
	Interface     controller.Object
	AuthProfile   controller.Object
	ScalableGroup controller.Object
	DataSegment   controller.Object
	VoiceSegment  controller.Object
	DeviceType    string
}

// InterfaceID is the controller id of the row's interface
func (r Row) InterfaceID() string {
	return r.Interface.String("id")
}

// PortName is the row's interface name as shown to operators
func (r Row) PortName() string {
	return r.Interface.String("portName")
}

// IsRemoval reports whether the row sets none of the four references
func (r Row) IsRemoval() bool {
	return r.AuthProfile == nil && r.ScalableGroup == nil && r.DataSegment == nil && r.VoiceSegment == nil
}

// Result is the outcome of reconciling one device
type Result struct {
	Removed []string
	Updated []string
	Added   []string

	// DeviceInfo is a copy of the input document whose interface list is
	// the list to commit
	DeviceInfo controller.Object
}

// Changes is the number of interfaces the commit touches
func (r *Result) Changes() int {
	return len(r.Removed) + len(r.Updated) + len(r.Added)
}

// Reconcile computes the interface list that makes deviceInfo match rows.
//
// Rows without any reference remove their interface, which must already be
// configured. Other rows update the existing entry for their interface, or add
// one. Untouched entries are kept as full objects or reduced to reference
// stubs depending on the profile. The result carries a modified copy of
// deviceInfo; the input document is left as it was. Each interface may appear
// in at most one row.
func Reconcile(deviceInfo controller.Object, rows []Row, profile Profile) (*Result, error) {
	if deviceInfo == nil {
		return nil, controller.NewValidationError("no DeviceInfo document to reconcile")
	}
	if err := checkDuplicates(rows); err != nil {
		return nil, err
	}

	doc := deviceInfo.Clone()
	working := append([]controller.Object{}, doc.Objects(FieldInterfaces)...)

	result := &Result{}
	touched := make(map[string]bool, len(rows))
	var built []controller.Object

	for _, row := range rows {
		ifID := row.InterfaceID()
		port := row.PortName()
		touched[ifID] = true
		idx := indexOf(working, ifID)

		if row.IsRemoval() {
			if idx < 0 {
				return nil, controller.NewInconsistentStateError(port + " not in cfs")
			}
			working = append(working[:idx], working[idx+1:]...)
			result.Removed = append(result.Removed, port)
			logAction(row, ActionRemove)
			continue
		}

		var entry controller.Object
		if idx >= 0 {
			entry = working[idx]
			entry.Set(FieldSegment, []any{})
			for _, field := range profile.ClearOnUpdate {
				entry.Delete(field)
			}
			result.Updated = append(result.Updated, port)
			logAction(row, ActionUpdate)
		} else {
			entry = controller.Object{
				FieldInterfaceID: row.Interface["id"],
				FieldRole:        RoleLAN,
				FieldSegment:     []any{},
			}
			if profile.SetNotSubtended {
				entry.Set(FieldNotSubtended, false)
			}
			result.Added = append(result.Added, port)
			logAction(row, ActionAdd)
		}

		apply(entry, row, profile)

		if idx >= 0 {
			working[idx] = entry
		} else {
			working = append(working, entry)
		}
		built = append(built, entry)
	}

	var output []controller.Object
	switch profile.Untouched {
	case ReferenceStub:
		output = make([]controller.Object, 0, len(working))
		for _, entry := range working {
			if touched[entry.String(FieldInterfaceID)] {
				continue
			}
			output = append(output, stub(entry))
		}
		output = append(output, built...)
	default:
		output = working
	}

	doc.Set(FieldInterfaces, toList(output))
	result.DeviceInfo = doc
	return result, nil
}

// apply writes the row's references into entry
func apply(entry controller.Object, row Row, profile Profile) {
	if row.AuthProfile != nil {
		entry.Set(FieldAuthProfileID, row.AuthProfile["siteProfileUuid"])
	}

	segments, _ := entry[FieldSegment].([]any)
	if row.DataSegment != nil {
		segments = append(segments, controller.Object{FieldIDRef: row.DataSegment["id"]})
	}
	if row.VoiceSegment != nil {
		segments = append(segments, controller.Object{FieldIDRef: row.VoiceSegment["id"]})
	}
	entry.Set(FieldSegment, segments)

	if row.ScalableGroup != nil {
		entry.Set(FieldScalableGroupID, row.ScalableGroup["id"])
	}
	if profile.DeviceTypeHint && row.DeviceType != "" {
		entry.Set(FieldConnectedDeviceType, row.DeviceType)
	}
}

// stub reduces an entry to its own id. Entries the controller sent without
// an id cannot be referenced and are kept whole.
func stub(entry controller.Object) controller.Object {
	id, ok := entry["id"]
	if !ok {
		return entry
	}
	return controller.Object{"id": id}
}

func checkDuplicates(rows []Row) error {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		id := row.InterfaceID()
		if seen[id] {
			return controller.NewValidationError(fmt.Sprintf("interface %s appears more than once for %s", row.PortName(), row.Host))
		}
		seen[id] = true
	}
	return nil
}

func indexOf(entries []controller.Object, interfaceID string) int {
	for i, entry := range entries {
		if entry.String(FieldInterfaceID) == interfaceID {
			return i
		}
	}
	return -1
}

func toList(entries []controller.Object) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}

func logAction(row Row, action Action) {
	logging.Debug("Interface classified",
		zap.String("host", row.Host),
		zap.String("port", row.PortName()),
		zap.String("interface_id", row.InterfaceID()),
		zap.Stringer("action", action),
	)
}
