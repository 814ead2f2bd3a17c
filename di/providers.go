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

// ProvideRouteProvider stacks logging over caching over the directions
// service.
func ProvideRouteProvider(client *maps.Client, routeCache data.RouteCache, logger log.Logger, publisher data.Publisher) def.RouteProvider {
	provider := data.NewDirectionsService(client)
	provider = data.NewCachingMiddleware(routeCache, logger)(provider)
	return data.NewLoggingMiddleware(logger, publisher)(provider)
}

func ProvideScreenFactory(ctx context.Context, provider def.RouteProvider, dispatcher mapscreen.Dispatcher, generator *houses.Generator, logger log.Logger, options mapscreen.Options) session.Factory {
	return func(id string) *mapscreen.Screen {
		return mapscreen.New(id, mapscreen.Dependencies{
			Context:    ctx,
			Provider:   provider,
			Generator:  generator,
			Dispatcher: dispatcher,
			Logger:     logger,
		}, options)
	}
}

var MapsSet = wire.NewSet(data.NewPlacesService, ProvideRouteProvider)
