package data

import (
	"context"
	"fmt"
	"time"

	"github.com/VinothKuppanna/walkmap/pkg/data/model"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/nsqio/go-nsq"
)

const TopicRouteRequests = "route_requests"

// Publisher is the part of *nsq.Producer the decorators use.
type Publisher interface {
	PublishAsync(topic string, body []byte, doneChan chan *nsq.ProducerTransaction, args ...interface{}) error
}

type RouteProviderMiddleware func(provider def.RouteProvider) def.RouteProvider

type cachingRouteProvider struct {
	def.RouteProvider
	cache  RouteCache
	logger log.Logger
}

// Only OK results are cached so a transient failure is retried next time.
func (p *cachingRouteProvider) Route(ctx context.Context, request *def.RouteRequest) *def.RouteResponse {
	key := request.CacheKey()
	result, found, err := p.cache.Get(ctx, key)
	if err != nil {
		level.Warn(p.logger).Log("msg", "route cache read failed", "key", key, "err", err)
	}
	if found {
		return &def.RouteResponse{Status: def.StatusOK, Result: result}
	}
	response := p.RouteProvider.Route(ctx, request)
	if response.Status == def.StatusOK && response.Result != nil {
		if err = p.cache.Set(ctx, key, response.Result); err != nil {
			level.Warn(p.logger).Log("msg", "route cache write failed", "key", key, "err", err)
		}
	}
	return response
}

func NewCachingMiddleware(cache RouteCache, logger log.Logger) RouteProviderMiddleware {
	return func(provider def.RouteProvider) def.RouteProvider {
		return &cachingRouteProvider{provider, cache, logger}
	}
}

type routeProviderMW struct {
	def.RouteProvider
	logger    log.Logger
	publisher Publisher
}

func (p *routeProviderMW) Route(ctx context.Context, request *def.RouteRequest) *def.RouteResponse {
	start := time.Now()
	response := p.RouteProvider.Route(ctx, request)
	logger := level.Info(p.logger)
	if response.Status != def.StatusOK {
		logger = level.Warn(p.logger)
	}
	logger.Log("method", "Route", "origin", request.Origin, "destination", request.Destination,
		"status", response.Status, "err", response.Error, "took", time.Since(start))
	if p.publisher != nil {
		if err := p.publishLogEntry("Route", request, response); err != nil {
			level.Error(p.logger).Log("msg", "failed to publish log entry", "err", err)
		}
	}
	return response
}

func (p *routeProviderMW) publishLogEntry(method string, request *def.RouteRequest, response *def.RouteResponse) error {
	severity := model.SeverityInfo
	if response.Status != def.StatusOK {
		severity = model.SeverityError
	}
	logEntry := model.LogEntry{
		Topic:     TopicRouteRequests,
		Severity:  severity,
		Message:   fmt.Sprintf("method: %s, route: %s, status: %s, error: %v", method, request.CacheKey(), response.Status, response.Error),
		Component: "directions_service",
	}
	bytes, err := logEntry.Bytes()
	if err != nil {
		return err
	}
	return p.publisher.PublishAsync(logEntry.Topic, bytes, nil)
}

// NewLoggingMiddleware logs every route lookup and, when publisher is set,
// archives it to nsq.
func NewLoggingMiddleware(logger log.Logger, publisher Publisher) RouteProviderMiddleware {
	return func(provider def.RouteProvider) def.RouteProvider {
		return &routeProviderMW{provider, log.With(logger, "component", "directions_service"), publisher}
	}
}
