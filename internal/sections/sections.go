// Package sections defines the renderer-agnostic content vocabulary that
// resource adapters produce. A Section is one titled (or untitled) unit of
// display content; its Data field holds exactly one of a closed set of
// variants so a renderer can dispatch with a type switch.
package sections

import (
	"context"
	"encoding/json"
)

// StatusLevel classifies a value for presentation purposes. Adapters derive
// levels from known enumerated resource states; unrecognized states are
// always LevelNeutral, never an error.
type StatusLevel string

const (
	LevelNeutral StatusLevel = "neutral"
	LevelSuccess StatusLevel = "success"
	LevelWarning StatusLevel = "warning"
	LevelError   StatusLevel = "error"
)

// Section is one unit of normalized display content. ID is stable and unique
// within the section list it belongs to (it is a rendering key, not globally
// unique). Sections are emitted in a fixed order for a given input.
type Section struct {
	ID    string
	Title string
	Data  Data
}

// Data is the closed union of section payloads. Implementations live in this
// package only.
type Data interface {
	sectionData()
	typeName() string
}

// StatusCard is a single label/value pair with a status classification and an
// optional icon hint for the renderer.
type StatusCard struct {
	Label string      `json:"label"`
	Value string      `json:"value"`
	Level StatusLevel `json:"level"`
	Icon  string      `json:"icon,omitempty"`
}

// StatusCards renders a row of status cards.
type StatusCards struct {
	Cards []StatusCard `json:"cards"`
}

// GaugeColor selects the fill color family for a gauge.
type GaugeColor string

const (
	GaugeBlue   GaugeColor = "blue"
	GaugeGreen  GaugeColor = "green"
	GaugeYellow GaugeColor = "yellow"
	GaugeRed    GaugeColor = "red"
)

// Gauge is a current/total pair. Current may transiently exceed Total (for
// example during a rollout surge); clamping is a rendering concern.
type Gauge struct {
	Label   string     `json:"label"`
	Current int64      `json:"current"`
	Total   int64      `json:"total"`
	Color   GaugeColor `json:"color"`
}

// Gauges renders a row of gauges.
type Gauges struct {
	Gauges []Gauge `json:"gauges"`
}

// Condition is one resource condition. Positive is a derived classification
// (whether this condition in this state is good news); it is not part of the
// raw resource.
type Condition struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
	Positive bool   `json:"positive"`
}

// Conditions renders a condition list. Adapters emit only conditions whose
// status differs from the healthy sentinel, so an empty list never reaches
// the renderer.
type Conditions struct {
	Conditions []Condition `json:"conditions"`
}

// InfoRow is one label/value row of an info grid.
type InfoRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InfoGrid renders label/value rows in one or two columns. Columns 0 leaves
// the choice to the renderer.
type InfoGrid struct {
	Rows    []InfoRow `json:"rows"`
	Columns int       `json:"columns,omitempty"`
}

// Labels renders a string-keyed map; insertion order is not significant.
// Adapters redact operator-internal keys before emitting this variant.
type Labels struct {
	Labels map[string]string `json:"labels"`
}

// Table renders tabular data with a fixed header row.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Container summarizes one container of a workload.
type Container struct {
	Name     string      `json:"name"`
	Image    string      `json:"image"`
	Ready    bool        `json:"ready"`
	State    string      `json:"state"`
	Level    StatusLevel `json:"level"`
	Restarts int32       `json:"restarts"`
	Init     bool        `json:"init,omitempty"`
	Ports    []string    `json:"ports,omitempty"`
}

// Containers renders per-container summaries.
type Containers struct {
	Containers []Container `json:"containers"`
}

// Volume summarizes one volume of a workload: its name, the source kind
// (ConfigMap, Secret, PersistentVolumeClaim, EmptyDir, ...) and a short
// source-specific detail such as the claim or object name.
type Volume struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Detail string `json:"detail,omitempty"`
}

// Volumes renders per-volume summaries.
type Volumes struct {
	Volumes []Volume `json:"volumes"`
}

// EntryKind classifies decoded secret content.
type EntryKind string

const (
	EntrySingleLine EntryKind = "single-line"
	EntryMultiline  EntryKind = "multiline"
	EntryBinary     EntryKind = "binary"
)

// SecretEntry is one classified secret key/value pair. Value holds the
// decoded text for textual entries and is empty for binary ones. Sensitive
// entries default to masked in any renderer; the mask state itself is
// renderer-owned.
type SecretEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value,omitempty"`
	Kind      EntryKind `json:"kind"`
	Sensitive bool      `json:"sensitive"`
	Size      int       `json:"size"`
}

// SecretEntries renders classified secret content.
type SecretEntries struct {
	Entries []SecretEntry `json:"entries"`
}

// RelatedResource is one entry of a resolved related-resource list. Heuristic
// marks entries matched by naming convention rather than an owner reference,
// so renderers can present the lower confidence.
type RelatedResource struct {
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Level     StatusLevel `json:"level"`
	Heuristic bool        `json:"heuristic,omitempty"`
}

// RelatedLoader produces a related-resource list on demand. Implementations
// never return an error: fetch or filter failures are logged and resolved to
// an empty list so a failing enrichment cannot break the rest of a panel.
// Loaders are safe to invoke repeatedly; each call performs an independent
// fetch-and-filter pass.
type RelatedLoader func(ctx context.Context) []RelatedResource

// Related is the only deferred variant: its content is not available when the
// section is constructed. The loader closes over the subject resource's
// identity, not over adapter or registry state.
type Related struct {
	Kind string
	Load RelatedLoader
}

// Custom is an opaque escape hatch for content that does not fit the closed
// vocabulary. Render produces pre-formatted text on demand.
type Custom struct {
	Render func() string
}

func (StatusCards) sectionData()   {}
func (Gauges) sectionData()        {}
func (Conditions) sectionData()    {}
func (InfoGrid) sectionData()      {}
func (Labels) sectionData()        {}
func (Table) sectionData()         {}
func (Containers) sectionData()    {}
func (Volumes) sectionData()       {}
func (SecretEntries) sectionData() {}
func (Related) sectionData()       {}
func (Custom) sectionData()        {}

func (StatusCards) typeName() string   { return "status-cards" }
func (Gauges) typeName() string        { return "gauges" }
func (Conditions) typeName() string    { return "conditions" }
func (InfoGrid) typeName() string      { return "info-grid" }
func (Labels) typeName() string        { return "labels" }
func (Table) typeName() string         { return "table" }
func (Containers) typeName() string    { return "containers" }
func (Volumes) typeName() string       { return "volumes" }
func (SecretEntries) typeName() string { return "secret-data" }
func (Related) typeName() string       { return "related" }
func (Custom) typeName() string        { return "custom" }

// Type returns the wire name of a section's data variant.
func (s Section) Type() string {
	if s.Data == nil {
		return ""
	}
	return s.Data.typeName()
}

// envelope is the wire shape of a serialized section.
type envelope struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
}

// MarshalJSON serializes a section as {id, title, type, data}. Deferred and
// opaque variants carry no materialized data: Related serializes as a
// descriptor with the related kind only, Custom as its rendered text.
func (s Section) MarshalJSON() ([]byte, error) {
	env := envelope{ID: s.ID, Title: s.Title, Type: s.Type()}
	switch d := s.Data.(type) {
	case Related:
		env.Data = map[string]string{"kind": d.Kind}
	case Custom:
		if d.Render != nil {
			env.Data = map[string]string{"content": d.Render()}
		}
	default:
		env.Data = s.Data
	}
	return json.Marshal(env)
}
