package config

// ResolverConfig tunes chain resolution
type ResolverConfig struct {
	// Upper bound on nodes built by one resolution; 0 disables the cap
	MaxNodes int `mapstructure:"max_nodes" validate:"min=0"`

	// Rate in kg/s used by calc when --rate is not given
	DefaultRate float64 `mapstructure:"default_rate" validate:"gte=0"`

	// Facility ids tried first, in order, when several facilities produce a resource
	PreferredFacilities []string `mapstructure:"preferred_facilities" validate:"dive,required"`
}
