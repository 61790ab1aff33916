package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactLabels(t *testing.T) {
	labels := map[string]string{
		"app":               "web",
		"tier":              "frontend",
		"pod-template-hash": "abc1234",
	}

	out := redactLabels("Pod", labels)
	assert.Equal(t, map[string]string{"app": "web", "tier": "frontend"}, out)
}

func TestRedactLabelsKindSpecific(t *testing.T) {
	labels := map[string]string{
		"kubernetes.io/hostname":  "node-1",
		"beta.kubernetes.io/arch": "amd64",
		"beta.kubernetes.io/os":   "linux",
	}

	// The beta duplicates disappear for nodes but survive on other kinds.
	assert.Equal(t, map[string]string{"kubernetes.io/hostname": "node-1"},
		redactLabels("Node", labels))
	assert.Equal(t, labels, redactLabels("Pod", labels))
}

func TestRedactLabelsNothingSurvives(t *testing.T) {
	labels := map[string]string{
		"pod-template-hash": "abc1234",
		"controller-uid":    "deadbeef",
	}
	assert.Nil(t, redactLabels("Pod", labels))
	assert.Nil(t, redactLabels("Pod", nil))
	assert.Nil(t, redactLabels("Pod", map[string]string{}))
}

func TestRedactAnnotations(t *testing.T) {
	annotations := map[string]string{
		"kubectl.kubernetes.io/last-applied-configuration": `{"apiVersion":"v1"}`,
		"team": "platform",
	}

	out := redactAnnotations("Service", annotations)
	assert.Equal(t, map[string]string{"team": "platform"}, out)
}

func TestRedactAnnotationsKindSpecific(t *testing.T) {
	annotations := map[string]string{
		"deployment.kubernetes.io/revision": "4",
		"owner":                             "payments",
	}

	assert.Equal(t, map[string]string{"owner": "payments"},
		redactAnnotations("Deployment", annotations))

	// The same key survives on kinds that do not surface the revision.
	assert.Equal(t, annotations, redactAnnotations("Service", annotations))
}
