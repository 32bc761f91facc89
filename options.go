package radius

import (
	"log/slog"

	"github.com/xraph/radius/plugin"
	"github.com/xraph/radius/store"
)

// Option is a functional option for the Service.
type Option func(*Service)

// WithStore sets the composite store.
func WithStore(s store.Store) Option { return func(svc *Service) { svc.store = s } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(svc *Service) { svc.logger = l } }

// WithConfig sets the service configuration.
func WithConfig(c Config) Option { return func(svc *Service) { svc.config = c } }

// WithPlugin registers a plugin with the service.
func WithPlugin(x plugin.Plugin) Option {
	return func(svc *Service) { svc.pending = append(svc.pending, x) }
}
