package di

import (
	"github.com/tomatitito/atuin-bar/cmd/events"
	"github.com/tomatitito/atuin-bar/cmd/tui/helpers"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/config"
	"github.com/tomatitito/atuin-bar/pkg/logging"
	"github.com/tomatitito/atuin-bar/pkg/overlay"
)

// Shared event bus instance
var commandEventBus = events.NewCommandEventBus()

func ProvideCommandEventBus() *events.CommandEventBus {
	return commandEventBus
}

func ProvideConfigManager(logger logging.Logger) (*config.Manager, error) {
	return config.NewDefaultManager(logger)
}

// ProvideConfig returns the effective configuration, creating the default
// file on first use.
func ProvideConfig(manager *config.Manager) config.Config {
	return *manager.Get()
}

// ProvideSearcher creates the atuin client described by cfg. Searches always
// ask atuin for atuin.DefaultLimit entries; max_results only caps how many
// rows the overlay shows at once.
func ProvideSearcher(cfg config.Config, logger logging.Logger) *atuin.Client {
	return atuin.NewClient(
		atuin.WithBinary(cfg.AtuinPath),
		atuin.WithLogger(logger),
	)
}

func ProvideClipboard() overlay.Clipboard {
	return helpers.NewClipboard()
}
