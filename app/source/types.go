package source

// Configuration types for author sources. One YAML file per author under the
// sources directory; the source name is derived from the filename.

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`      // Author page URL, paginated with ?page=N
	FeedURL  string         `yaml:"feed_url"` // Optional author RSS feed; collection uses it when set
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	MaxLinks        int  `yaml:"max_links"`        // stop collecting once this many links are stored (0 = unlimited)
	BatchSize       int  `yaml:"batch_size"`       // links per download/extraction batch
	Timeout         int  `yaml:"timeout"`          // per-request timeout, seconds
	RefreshInterval int  `yaml:"refresh_interval"` // seconds between collection runs
	MinDelay        int  `yaml:"min_delay"`        // politeness delay bounds between requests, seconds
	MaxDelay        int  `yaml:"max_delay"`
	SalvageFailed   bool `yaml:"salvage_failed"` // run a readability pass when the cascade fails
}
