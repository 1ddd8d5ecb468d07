package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree() map[string]interface{} {
	return map[string]interface{}{
		"vlans": map[string]interface{}{
			"10": map[string]interface{}{
				"name":     "trusted",
				"vlan_id":  10,
				"subnet":   "10.0.10.0/24",
				"enabled":  true,
				"dhcp_dns": []interface{}{"1.1.1.1", "8.8.8.8"},
			},
			"30": map[string]interface{}{
				"name":    "servers",
				"vlan_id": 30,
			},
		},
	}
}

// TestDiff_Identical verifies a tree compared against itself reports
// nothing
func TestDiff_Identical(t *testing.T) {
	result := Diff(tree(), tree())

	assert.True(t, result.Empty())
	assert.Equal(t, "no differences", result.Summary())
}

// TestDiff_AddedAndRemoved verifies membership differences on both sides
func TestDiff_AddedAndRemoved(t *testing.T) {
	desired := tree()
	live := tree()
	liveVLANs := live["vlans"].(map[string]interface{})
	delete(liveVLANs, "30")
	liveVLANs["40"] = map[string]interface{}{"name": "guest", "vlan_id": 40}

	result := Diff(desired, live)

	assert.Equal(t, []string{"vlans.30"}, result.Added)
	assert.Equal(t, []string{"vlans.40"}, result.Removed)
	assert.Empty(t, result.Changed)
}

// TestDiff_ChangedScalar verifies a leaf difference carries both values
func TestDiff_ChangedScalar(t *testing.T) {
	desired := tree()
	live := tree()
	live["vlans"].(map[string]interface{})["10"].(map[string]interface{})["subnet"] = "10.0.99.0/24"

	result := Diff(desired, live)

	require.Len(t, result.Changed, 1)
	change := result.Changed[0]
	assert.Equal(t, "vlans.10.subnet", change.Path)
	assert.Equal(t, "10.0.99.0/24", change.Old)
	assert.Equal(t, "10.0.10.0/24", change.New)
}

// TestDiff_ListsOrderInsensitive verifies list comparison is multiset-wise
func TestDiff_ListsOrderInsensitive(t *testing.T) {
	desired := tree()
	live := tree()
	live["vlans"].(map[string]interface{})["10"].(map[string]interface{})["dhcp_dns"] =
		[]interface{}{"8.8.8.8", "1.1.1.1"}

	result := Diff(desired, live)
	assert.True(t, result.Empty(), "reordered list is not a difference")

	live["vlans"].(map[string]interface{})["10"].(map[string]interface{})["dhcp_dns"] =
		[]interface{}{"8.8.8.8", "9.9.9.9"}
	result = Diff(desired, live)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "vlans.10.dhcp_dns", result.Changed[0].Path)
}

// TestDiff_NumericDecoderDrift verifies YAML ints equal JSON floats for
// integral values
func TestDiff_NumericDecoderDrift(t *testing.T) {
	desired := map[string]interface{}{"vlan_id": 10}
	live := map[string]interface{}{"vlan_id": float64(10)}

	assert.True(t, Diff(desired, live).Empty())

	live["vlan_id"] = float64(10.5)
	assert.False(t, Diff(desired, live).Empty())
}

// TestDiff_MixedMapShapes verifies legacy YAML map decoding is normalized
func TestDiff_MixedMapShapes(t *testing.T) {
	desired := map[string]interface{}{
		"vlans": map[string]interface{}{"10": map[string]interface{}{"name": "trusted"}},
	}
	live := map[string]interface{}{
		"vlans": map[interface{}]interface{}{"10": map[interface{}]interface{}{"name": "trusted"}},
	}

	assert.True(t, Diff(desired, live).Empty())
}

// TestDiff_SortedReport verifies report paths come out in stable sorted
// order
func TestDiff_SortedReport(t *testing.T) {
	desired := map[string]interface{}{"b": 1, "a": 1, "c": 1}
	live := map[string]interface{}{}

	result := Diff(desired, live)

	assert.Equal(t, []string{"a", "b", "c"}, result.Added)
}

// TestSummary verifies the rendered report shape
func TestSummary(t *testing.T) {
	result := &Result{
		Added:   []string{"vlans.30"},
		Removed: []string{"vlans.40"},
		Changed: []Change{{Path: "vlans.10.subnet", Old: "x", New: "y"}},
	}

	summary := result.Summary()

	assert.Contains(t, summary, "+ vlans.30")
	assert.Contains(t, summary, "- vlans.40")
	assert.Contains(t, summary, "~ vlans.10.subnet: x -> y")
}
