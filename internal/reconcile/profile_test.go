package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netfabric/fabricctl/internal/controller"
)

func TestParseGeneration(t *testing.T) {
	tests := []struct {
		in      string
		want    Generation
		wantErr bool
	}{
		{"", GenerationAuto, false},
		{"auto", GenerationAuto, false},
		{"v1", GenerationV1, false},
		{" V2 ", GenerationV2, false},
		{"v3", "", true},
	}

	for _, tt := range tests {
		got, err := ParseGeneration(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestProfileFor(t *testing.T) {
	p, err := ProfileFor(GenerationV1)
	require.NoError(t, err)
	assert.Equal(t, V1(), p)

	p, err = ProfileFor(GenerationV2)
	require.NoError(t, err)
	assert.Equal(t, V2(), p)

	_, err = ProfileFor(GenerationAuto)
	assert.Error(t, err)
}

func TestProfiles(t *testing.T) {
	v1 := V1()
	assert.Equal(t, FullObject, v1.Untouched)
	assert.Equal(t, KeyID, v1.DeviceKey)
	assert.True(t, v1.DeviceTypeHint)
	assert.False(t, v1.SetNotSubtended)
	assert.Contains(t, v1.ClearOnUpdate, FieldConnectedDeviceType)

	v2 := V2()
	assert.Equal(t, ReferenceStub, v2.Untouched)
	assert.Equal(t, KeyHostname, v2.DeviceKey)
	assert.False(t, v2.DeviceTypeHint)
	assert.True(t, v2.SetNotSubtended)
	assert.NotContains(t, v2.ClearOnUpdate, FieldConnectedDeviceType)
	assert.Subset(t, v2.ClearOnUpdate, []string{FieldAuthProfileID, FieldAuthProfile, FieldScalableGroupID})
}

func TestDeviceInfoName(t *testing.T) {
	device := controller.Object{"id": "6a6b7f45", "hostname": "edge-1.campus.local"}

	assert.Equal(t, "6a6b7f45", V1().DeviceInfoName(device))
	assert.Equal(t, "edge-1.campus.local", V2().DeviceInfoName(device))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "remove", ActionRemove.String())
	assert.Equal(t, "update", ActionUpdate.String())
	assert.Equal(t, "add", ActionAdd.String())
	assert.Equal(t, "Action(7)", Action(7).String())
}
