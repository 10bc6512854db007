package extractor

import (
	"fmt"

	"extractd/internal/config"
	"extractd/internal/port"
)

// ProviderFactory creates a semantic TextExtractor from the extractor config.
type ProviderFactory func(cfg *config.ExtractorConfig) (port.TextExtractor, error)

// registry of semantic provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates a semantic TextExtractor using the registered factory.
func NewProvider(cfg *config.ExtractorConfig) (port.TextExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
