// Package flags holds read-only feature toggles loaded from the config file.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/electryonz/internal/log"
)

const (
	// FlagQRPreview draws the payment QR image in the terminal after a
	// successful registration, in addition to its reference.
	FlagQRPreview = "qr-preview"

	// FlagReceiptMarkdown renders a markdown receipt under the QR block.
	FlagReceiptMarkdown = "receipt-markdown"
)

// Defaults are the values used for flags the config file does not mention.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagQRPreview:       true,
		FlagReceiptMarkdown: false,
	}
}

// Registry answers flag lookups. A nil Registry reports every flag disabled.
type Registry struct {
	flags map[string]bool
}

// New layers configured over Defaults.
func New(configured map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, configured)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "feature flags loaded", "flags", r.All())
	return r
}

// Enabled reports the flag's value; unknown flags are off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of every flag value.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Names lists known flags in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.All()))
}
