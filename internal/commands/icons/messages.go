package iconscmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const fetchIconsMessageType = "entitychips.icons.fetch"

// FetchIconsCommand downloads favicons for registry entities into the
// configured asset directory.
type FetchIconsCommand struct {
	// Slugs limits the run to these entities. Empty means every entity with
	// a resolvable domain.
	Slugs []string `json:"slugs,omitempty"`
	// Force re-downloads icons that already exist.
	Force bool `json:"force,omitempty"`
	// DryRun logs what would be fetched without touching the network or disk.
	DryRun bool `json:"dry_run,omitempty"`
	// Strict turns per-item failures into a command error.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (FetchIconsCommand) Type() string { return fetchIconsMessageType }

// Validate rejects blank slugs.
func (cmd FetchIconsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slugs, validation.Each(validation.Required)),
	)
}
