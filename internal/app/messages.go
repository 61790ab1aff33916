package app

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// resourcesLoadedMsg carries the listing result for the selected kind. A nil
// cfg means the connected cluster does not serve the kind; rows is empty in
// that case.
type resourcesLoadedMsg struct {
	kind string
	cfg  *k8s.ResourceConfig
	rows []resourceRow
}

// objectLoadedMsg carries one fetched object and its adapted sections.
type objectLoadedMsg struct {
	obj  *unstructured.Unstructured
	secs []sections.Section
}

// relatedLoadedMsg carries a resolved related-resource list for one section.
// Loader failures surface as an empty list, never as an error.
type relatedLoadedMsg struct {
	sectionID string
	items     []sections.RelatedResource
}

// actionDoneMsg reports the outcome of an executed action.
type actionDoneMsg struct {
	actionID string
	label    string
	err      error
}

// loadErrMsg reports a failed list or get.
type loadErrMsg struct {
	err error
}

// statusMsg sets the transient status line.
type statusMsg struct {
	level string
	text  string
}

// clearStatusMsg clears the status line. The sequence number ties the clear
// to the message that scheduled it, so an old timer cannot wipe a newer
// message.
type clearStatusMsg struct {
	seq int
}
