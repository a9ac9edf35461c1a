package reconcile

import (
	"fmt"
	"strings"

	"github.com/netfabric/fabricctl/internal/controller"
)

// Generation names a controller API generation
type Generation string

const (
	// GenerationV1 controllers key DeviceInfo by device id and take full
	// interface objects on commit
	GenerationV1 Generation = "v1"
	// GenerationV2 controllers key DeviceInfo by hostname and take reference
	// stubs for unchanged interfaces
	GenerationV2 Generation = "v2"
	// GenerationAuto detects the generation from which DeviceInfo key answers
	GenerationAuto Generation = "auto"
)

// ParseGeneration validates a generation name. Empty means auto.
func ParseGeneration(s string) (Generation, error) {
	switch g := Generation(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GenerationAuto, nil
	case GenerationV1, GenerationV2, GenerationAuto:
		return g, nil
	default:
		return "", fmt.Errorf("unknown controller generation %q (use v1, v2 or auto)", s)
	}
}

// Untouched selects how interfaces not named by any row are committed
type Untouched int

const (
	// FullObject resubmits untouched entries exactly as fetched
	FullObject Untouched = iota
	// ReferenceStub resubmits untouched entries as {"id": ...}
	ReferenceStub
)

// DeviceKey selects the device field used as the DeviceInfo name
type DeviceKey int

const (
	KeyID DeviceKey = iota
	KeyHostname
)

// Profile holds everything that differs between controller generations
type Profile struct {
	Generation Generation

	// Untouched is the commit shape of interfaces no row names
	Untouched Untouched

	// DeviceKey is the device field that names its DeviceInfo document
	DeviceKey DeviceKey

	// ClearOnUpdate lists the fields removed from an existing entry before
	// the row's values are applied. The segment list is always emptied.
	ClearOnUpdate []string

	// DeviceTypeHint applies the Device type cell as connectedDeviceType
	DeviceTypeHint bool

	// SetNotSubtended adds notSubtended=false to new entries
	SetNotSubtended bool
}

// V1 returns the profile for full-object controllers
func V1() Profile {
	return Profile{
		Generation: GenerationV1,
		Untouched:  FullObject,
		DeviceKey:  KeyID,
		ClearOnUpdate: []string{
			FieldAuthProfileID,
			FieldAuthProfile,
			FieldScalableGroupID,
			FieldConnectedDeviceType,
		},
		DeviceTypeHint: true,
	}
}

// V2 returns the profile for reference-stub controllers
func V2() Profile {
	return Profile{
		Generation: GenerationV2,
		Untouched:  ReferenceStub,
		DeviceKey:  KeyHostname,
		ClearOnUpdate: []string{
			FieldAuthProfileID,
			FieldAuthProfile,
			FieldScalableGroupID,
		},
		SetNotSubtended: true,
	}
}

// ProfileFor returns the profile of a concrete generation. Auto has no
// profile until detection picks one.
func ProfileFor(g Generation) (Profile, error) {
	switch g {
	case GenerationV1:
		return V1(), nil
	case GenerationV2:
		return V2(), nil
	default:
		return Profile{}, fmt.Errorf("no profile for generation %q", g)
	}
}

// DeviceInfoName returns the name under which the controller stores the
// device's DeviceInfo document
func (p Profile) DeviceInfoName(device controller.Object) string {
	if p.DeviceKey == KeyHostname {
		return device.String("hostname")
	}
	return device.String("id")
}
