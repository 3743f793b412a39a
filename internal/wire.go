//go:build wireinject
// +build wireinject

package internal

import (
	"waifud/internal/backup"
	"waifud/internal/catalog"
	"waifud/internal/controllers"
	"waifud/internal/gallery"
	"waifud/internal/ledger"
	"waifud/internal/providers"
	"waifud/internal/services"
	"waifud/internal/structures"

	"github.com/google/wire"
)

func InitializeApp(flags *structures.CliFlags) (*App, error) {
	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewClock,
		providers.NewCacheProvider,
		providers.NewAdminProvider,
		providers.NewMetricsProvider,
		catalog.NewReader,
		catalog.NewRemote,
		ledger.NewStore,
		ledger.NewStatusStore,
		ledger.NewRateCounter,
		gallery.NewNormalizer,
		gallery.NewCompositor,
		gallery.NewEngine,
		services.NewRand,
		services.NewWifeService,
		backup.NewZstdCompressor,
		backup.NewManager,
		backup.NewScheduler,
		controllers.NewWifeController,
		controllers.NewGalleryController,
		controllers.NewHealthController,
		InitRoutes,
		NewApp,

		wire.Bind(new(catalog.CacheInterface), new(providers.CacheProviderInterface)),
		wire.Bind(new(catalog.MetricsInterface), new(providers.MetricsProviderInterface)),
		wire.Bind(new(providers.CatalogSource), new(*catalog.Reader)),
		wire.Bind(new(providers.GroupSource), new(*ledger.Store)),
		wire.Bind(new(gallery.CatalogInterface), new(*catalog.Reader)),
		wire.Bind(new(gallery.LedgerInterface), new(*ledger.Store)),
		wire.Bind(new(services.LedgerInterface), new(*ledger.Store)),
		wire.Bind(new(services.CatalogInterface), new(*catalog.Reader)),
		wire.Bind(new(services.RemoteInterface), new(*catalog.Remote)),
		wire.Bind(new(services.StatusInterface), new(*ledger.StatusStore)),
		wire.Bind(new(services.RateCounterInterface), new(*ledger.RateCounter)),
		wire.Bind(new(services.AdminInterface), new(providers.AdminProviderInterface)),
		wire.Bind(new(services.GalleryInterface), new(*gallery.Engine)),
		wire.Bind(new(services.ClockInterface), new(providers.ClockInterface)),
		wire.Bind(new(services.MetricsInterface), new(providers.MetricsProviderInterface)),
		wire.Bind(new(backup.GalleryCleaner), new(*gallery.Engine)),
	)
	return nil, nil
}
