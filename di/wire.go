//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/VinothKuppanna/walkmap/internal/houses"
	"github.com/VinothKuppanna/walkmap/internal/mapscreen"
	"github.com/VinothKuppanna/walkmap/internal/middleware/session"
	"github.com/VinothKuppanna/walkmap/pkg/data"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/google/wire"
	"googlemaps.github.io/maps"
)

func InitPlacesService(client *maps.Client) def.PlacesService {
	wire.Build(MapsSet)
	return nil
}

func InitRouteProvider(client *maps.Client, routeCache data.RouteCache, logger log.Logger, publisher data.Publisher) def.RouteProvider {
	wire.Build(MapsSet)
	return nil
}

func InitScreenFactory(ctx context.Context, provider def.RouteProvider, dispatcher mapscreen.Dispatcher, generator *houses.Generator, logger log.Logger, options mapscreen.Options) session.Factory {
	wire.Build(ProvideScreenFactory)
	return nil
}
