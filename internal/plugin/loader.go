package plugin

//go:generate mockgen -source=loader.go -destination=loader_mock.go -package=plugin

// Loader loads plugins of one type (Go plugins, exec plugins).
type Loader interface {
	// Load loads the plugin at path and retrieves its descriptor.
	// A loader that fails after acquiring a module resource releases it
	// before returning the error.
	Load(path string) (Plugin, error)

	// Close releases any resources held by the loader.
	Close() error
}
