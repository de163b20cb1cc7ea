// Package ui provides the Bubble Tea TUI for trialsearch.
package ui

import (
	"github.com/rubiojr/trialsearch/pkg/config"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

// searchResultMsg delivers a search or filter response. Generation ties it
// to the request that produced it; results for older generations are
// dropped.
type searchResultMsg struct {
	generation string
	mode       Mode
	query      string
	page       int
	resp       *trials.SearchResponse
	err        error
}

// summaryMsg delivers the AI summary for the generation that asked for it.
type summaryMsg struct {
	generation string
	text       string
	ok         bool
}

// ConfigReloadedMsg is sent when the configuration file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
