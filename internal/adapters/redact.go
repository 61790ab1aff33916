package adapters

// Operator-controllers stamp bookkeeping keys onto the objects they manage.
// Those keys carry no information a person inspecting the resource needs and
// drown out the hand-written ones, so labels and annotations sections redact
// them. The lists differ per kind because each controller family writes its
// own keys.

// internalLabelKeys are redacted from every kind's labels section.
var internalLabelKeys = map[string]bool{
	"pod-template-hash":                  true,
	"pod-template-generation":            true,
	"controller-revision-hash":           true,
	"controller-uid":                     true,
	"batch.kubernetes.io/controller-uid": true,
	"batch.kubernetes.io/job-name":       true,
	"statefulset.kubernetes.io/pod-name": true,
}

// internalLabelKeysByKind adds per-kind redactions on top of the base list.
var internalLabelKeysByKind = map[string][]string{
	"Job": {"job-name"},
	"Pod": {"job-name"},
	"Node": {
		"beta.kubernetes.io/arch",
		"beta.kubernetes.io/os",
		"beta.kubernetes.io/instance-type",
		"failure-domain.beta.kubernetes.io/zone",
		"failure-domain.beta.kubernetes.io/region",
	},
}

// internalAnnotationKeys are redacted from every kind's annotations section.
var internalAnnotationKeys = map[string]bool{
	"kubectl.kubernetes.io/last-applied-configuration": true,
	"control-plane.alpha.kubernetes.io/leader":         true,
}

// internalAnnotationKeysByKind adds per-kind redactions. Revision-tracking
// annotations are redacted where the adapter already surfaces the revision
// in its info section.
var internalAnnotationKeysByKind = map[string][]string{
	"Deployment": {"deployment.kubernetes.io/revision"},
	"ReplicaSet": {
		"deployment.kubernetes.io/revision",
		"deployment.kubernetes.io/desired-replicas",
		"deployment.kubernetes.io/max-replicas",
	},
	"Node": {
		"node.alpha.kubernetes.io/ttl",
		"volumes.kubernetes.io/controller-managed-attach-detach",
	},
	"PersistentVolume": {
		"pv.kubernetes.io/provisioned-by",
		"pv.kubernetes.io/migrated-to",
	},
	"PersistentVolumeClaim": {
		"pv.kubernetes.io/bind-completed",
		"pv.kubernetes.io/bound-by-controller",
		"volume.beta.kubernetes.io/storage-provisioner",
		"volume.kubernetes.io/storage-provisioner",
		"volume.kubernetes.io/selected-node",
	},
	"Job": {"batch.kubernetes.io/cronjob-scheduled-timestamp"},
}

// redactKeys copies src without the base-redacted keys and kind extras.
// Returns nil when nothing survives.
func redactKeys(src map[string]string, base map[string]bool, extras []string) map[string]string {
	if len(src) == 0 {
		return nil
	}

	extraSet := make(map[string]bool, len(extras))
	for _, k := range extras {
		extraSet[k] = true
	}

	out := make(map[string]string)
	for k, v := range src {
		if base[k] || extraSet[k] {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// redactLabels filters a kind's labels through the redaction lists.
func redactLabels(kind string, labels map[string]string) map[string]string {
	return redactKeys(labels, internalLabelKeys, internalLabelKeysByKind[kind])
}

// redactAnnotations filters a kind's annotations through the redaction lists.
func redactAnnotations(kind string, annotations map[string]string) map[string]string {
	return redactKeys(annotations, internalAnnotationKeys, internalAnnotationKeysByKind[kind])
}
