package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksight-io/ksight/internal/sections"
)

func TestPersistentVolumeAdapterSections(t *testing.T) {
	obj := newTestObject("PersistentVolume", "", "pv-data", map[string]interface{}{
		"spec": map[string]interface{}{
			"capacity": map[string]interface{}{"storage": "10Gi"},
			"accessModes": []interface{}{
				"ReadWriteOnce",
			},
			"persistentVolumeReclaimPolicy": "Retain",
			"storageClassName":              "standard",
			"volumeMode":                    "Filesystem",
			"claimRef": map[string]interface{}{
				"namespace": "default",
				"name":      "data-db-0",
			},
			"csi": map[string]interface{}{"driver": "ebs.csi.aws.com"},
		},
		"status": map[string]interface{}{"phase": "Bound"},
	})

	secs := newPersistentVolumeAdapter().Adapt(obj, "")
	require.Equal(t, []string{"status", "info"}, sectionIDs(secs))

	cards := secs[0].Data.(sections.StatusCards).Cards
	assert.Equal(t, sections.StatusCard{Label: "Phase", Value: "Bound", Level: sections.LevelSuccess}, cards[0])
	assert.Equal(t, "10Gi", cards[1].Value)
	assert.Equal(t, "Retain", cards[2].Value)
	assert.Equal(t, "standard", cards[3].Value)

	info := secs[1].Data.(sections.InfoGrid)
	assert.Equal(t, "ReadWriteOnce", info.Rows[0].Value)
	assert.Equal(t, "default/data-db-0", info.Rows[2].Value)
	assert.Equal(t, "csi", info.Rows[3].Value)
}

func TestPersistentVolumeReleasedPhase(t *testing.T) {
	obj := newTestObject("PersistentVolume", "", "pv-old", map[string]interface{}{
		"spec":   map[string]interface{}{},
		"status": map[string]interface{}{"phase": "Released"},
	})

	secs := newPersistentVolumeAdapter().Adapt(obj, "")
	cards := secs[0].Data.(sections.StatusCards).Cards
	assert.Equal(t, sections.LevelWarning, cards[0].Level)

	info := secs[1].Data.(sections.InfoGrid)
	assert.Equal(t, "<none>", info.Rows[2].Value, "unbound volume has no claim")
}

func TestPersistentVolumeClaimAdapterSections(t *testing.T) {
	obj := newTestObject("PersistentVolumeClaim", "default", "data-db-0", map[string]interface{}{
		"spec": map[string]interface{}{
			"accessModes":      []interface{}{"ReadWriteOnce"},
			"storageClassName": "standard",
			"volumeName":       "pv-data",
			"resources": map[string]interface{}{
				"requests": map[string]interface{}{"storage": "5Gi"},
			},
		},
		"status": map[string]interface{}{
			"phase":    "Bound",
			"capacity": map[string]interface{}{"storage": "10Gi"},
		},
	})

	secs := newPersistentVolumeClaimAdapter().Adapt(obj, "default")
	require.Equal(t, []string{"status", "info"}, sectionIDs(secs))

	cards := secs[0].Data.(sections.StatusCards).Cards
	assert.Equal(t, "Bound", cards[0].Value)
	assert.Equal(t, sections.LevelSuccess, cards[0].Level)
	assert.Equal(t, "10Gi", cards[1].Value, "granted capacity, not the request")
	assert.Equal(t, "5Gi", cards[2].Value)

	info := secs[1].Data.(sections.InfoGrid)
	assert.Equal(t, "pv-data", info.Rows[2].Value)
}

func TestPersistentVolumeClaimPending(t *testing.T) {
	obj := newTestObject("PersistentVolumeClaim", "default", "data-db-1", map[string]interface{}{
		"spec":   map[string]interface{}{},
		"status": map[string]interface{}{"phase": "Pending"},
	})

	secs := newPersistentVolumeClaimAdapter().Adapt(obj, "default")
	cards := secs[0].Data.(sections.StatusCards).Cards
	assert.Equal(t, sections.LevelNeutral, cards[0].Level, "pending is not yet a failure")
}
