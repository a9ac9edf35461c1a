package reconcile

import (
	"fmt"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/tabular"
)

// References are the controller collections that row cells are resolved
// against. Interfaces belong to the device being reconciled.
type References struct {
	Interfaces     []controller.Object
	AuthProfiles   []controller.Object
	ScalableGroups []controller.Object
	Segments       []controller.Object
}

// Resolve turns input rows into Rows by looking up each named entity.
// Interfaces match on portName, authentication profiles, scalable groups and
// segments on name. An empty cell leaves the reference unset; an unknown name
// is a lookup error naming the host and column.
func Resolve(rows []tabular.Row, refs References) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, in := range rows {
		host := in.Get(tabular.ColHostname)

		lookup := func(items []controller.Object, key, column string) (controller.Object, error) {
			obj, err := controller.Lookup(items, key, in.Get(column))
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", host, column, err)
			}
			return obj, nil
		}

		iface, err := lookup(refs.Interfaces, "portName", tabular.ColInterface)
		if err != nil {
			return nil, err
		}
		if iface == nil {
			return nil, fmt.Errorf("%s: %w", host,
				controller.NewValidationError("row has no "+tabular.ColInterface))
		}

		row := Row{
			Host:       host,
			Interface:  iface,
			DeviceType: in.Get(tabular.ColDeviceType),
		}
		if row.AuthProfile, err = lookup(refs.AuthProfiles, "name", tabular.ColAuthentication); err != nil {
			return nil, err
		}
		if row.ScalableGroup, err = lookup(refs.ScalableGroups, "name", tabular.ColScalableGroup); err != nil {
			return nil, err
		}
		if row.DataSegment, err = lookup(refs.Segments, "name", tabular.ColDataSegment); err != nil {
			return nil, err
		}
		if row.VoiceSegment, err = lookup(refs.Segments, "name", tabular.ColVoiceSegment); err != nil {
			return nil, err
		}

		out = append(out, row)
	}
	return out, nil
}
