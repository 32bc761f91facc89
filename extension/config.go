package extension

// Config holds the Radius extension configuration.
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for radius routes (default: "/api/v1").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// UpsertOnUpdate is passed to radius.Config. Nil keeps the service default.
	UpsertOnUpdate *bool `json:"upsert_on_update,omitempty" mapstructure:"upsert_on_update" yaml:"upsert_on_update"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath: "/api/v1",
	}
}
