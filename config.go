package radius

// Config holds configuration for the Radius service.
type Config struct {
	// UpsertOnUpdate makes an update of an unknown ID insert a new record
	// with that ID instead of failing with ErrNotFound.
	// Defaults to true.
	UpsertOnUpdate *bool `json:"upsert_on_update,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		UpsertOnUpdate: &t,
	}
}

func (c Config) upsertOnUpdate() bool { return c.UpsertOnUpdate == nil || *c.UpsertOnUpdate }
