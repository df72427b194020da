package variables

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableSetJSON(t *testing.T) {
	t.Run("round trip preserves unknown keys", func(t *testing.T) {
		payload := []byte(`{
			"containerId": "C1001",
			"transportationId": "truck101",
			"operationType": "loading",
			"weight": 12000,
			"craneLoadingStatus": "completed",
			"customFlag": true
		}`)

		var vs VariableSet
		require.NoError(t, json.Unmarshal(payload, &vs))

		assert.Equal(t, "C1001", vs.ContainerID)
		assert.Equal(t, "truck101", vs.TransportationID)
		assert.Equal(t, "loading", vs.OperationType)
		assert.True(t, vs.HasWeight)
		assert.Equal(t, 12000.0, vs.Weight)
		assert.Equal(t, "completed", vs.Extra["craneLoadingStatus"])
		assert.Equal(t, true, vs.Extra["customFlag"])

		out, err := json.Marshal(vs)
		require.NoError(t, err)

		var echo map[string]any
		require.NoError(t, json.Unmarshal(out, &echo))
		assert.Equal(t, "C1001", echo["containerId"])
		assert.Equal(t, 12000.0, echo["weight"])
		assert.Equal(t, "completed", echo["craneLoadingStatus"])
		assert.Equal(t, true, echo["customFlag"])
	})

	t.Run("absent fields are omitted on marshal", func(t *testing.T) {
		vs := VariableSet{ContainerID: "C1001"}
		out, err := json.Marshal(vs)
		require.NoError(t, err)

		var echo map[string]any
		require.NoError(t, json.Unmarshal(out, &echo))
		assert.Len(t, echo, 1)
		assert.Equal(t, "C1001", echo["containerId"])
	})

	t.Run("non-object payload is rejected", func(t *testing.T) {
		var vs VariableSet
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &vs))
	})
}

func TestProvided(t *testing.T) {
	var vs VariableSet
	vs.Set(KeyContainerID, "C1001")
	vs.Set(KeyTransportationID, Sentinel)

	assert.True(t, vs.Provided(KeyContainerID))
	assert.False(t, vs.Provided(KeyTransportationID), "sentinel counts as not provided")
	assert.False(t, vs.Provided(KeyOperationType), "absent counts as not provided")
	assert.False(t, vs.Provided(KeyWeight))

	vs.Set(KeyWeight, 0.0)
	assert.True(t, vs.Provided(KeyWeight), "an explicit zero weight is provided")
}

func TestClone(t *testing.T) {
	vs := VariableSet{ContainerID: "C1001", Extra: map[string]any{"a": 1}}
	clone := vs.Clone()
	clone.Set("b", 2)

	_, ok := vs.Extra["b"]
	assert.False(t, ok, "mutating the clone must not touch the original")
}

func TestTranslate(t *testing.T) {
	t.Run("to internal maps provided fields to column names", func(t *testing.T) {
		var vs VariableSet
		vs.Set(KeyContainerID, "C1001")
		vs.Set(KeyWeight, 12000.0)
		vs.Set("customFlag", "yes")

		fields := ToInternal(vs)
		assert.Equal(t, "C1001", fields[FieldContainerID])
		assert.Equal(t, 12000.0, fields[FieldWeight])
		assert.Equal(t, "yes", fields["customFlag"])
		_, ok := fields[FieldStorageStatus]
		assert.False(t, ok, "absent fields are not emitted")
	})

	t.Run("to external overlays without dropping base keys", func(t *testing.T) {
		base := VariableSet{
			ContainerID:      "C1001",
			TransportationID: "truck101",
			Extra:            map[string]any{"craneLoadingStatus": "completed"},
		}

		out := ToExternal(EntityFields{
			FieldStorageStatus: "complete",
			"extraColumn":      42,
		}, base)

		assert.Equal(t, "complete", out.StorageStatus)
		assert.Equal(t, "C1001", out.ContainerID)
		assert.Equal(t, "truck101", out.TransportationID)
		assert.Equal(t, "completed", out.Extra["craneLoadingStatus"])
		assert.Equal(t, 42, out.Extra["extraColumn"])
	})

	t.Run("round trip is lossless for provided fields", func(t *testing.T) {
		var vs VariableSet
		vs.Set(KeyContainerID, "C1001")
		vs.Set(KeyCheckIn, "2026-01-02 10:00:00")
		vs.Set("passThrough", "v")

		back := ToExternal(ToInternal(vs), VariableSet{})
		assert.Equal(t, vs.ContainerID, back.ContainerID)
		assert.Equal(t, vs.CheckIn, back.CheckIn)
		assert.Equal(t, "v", back.Extra["passThrough"])
	})
}
