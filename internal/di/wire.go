//go:build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/tomatitito/atuin-bar/cmd/tui"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/config"
	"github.com/tomatitito/atuin-bar/pkg/logging"
)

var searcherSet = wire.NewSet(
	ProvideConfigManager,
	ProvideConfig,
	ProvideSearcher,
)

func InitializeConfigManager(logger logging.Logger) (*config.Manager, error) {
	wire.Build(ProvideConfigManager)
	return nil, nil
}

func InitializeSearcher(logger logging.Logger) (*atuin.Client, error) {
	wire.Build(searcherSet)
	return nil, nil
}

// InitializeOverlayDeps wires everything the overlay needs. The logger must
// not write to the terminal.
func InitializeOverlayDeps(logger logging.Logger) (tui.Deps, error) {
	wire.Build(
		searcherSet,
		ProvideClipboard,
		ProvideCommandEventBus,
		wire.Bind(new(atuin.Searcher), new(*atuin.Client)),
		wire.Struct(new(tui.Deps), "*"),
	)
	return tui.Deps{}, nil
}
