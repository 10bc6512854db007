package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"extractd/internal/config"
	"extractd/internal/extractor"
	"extractd/internal/port"
	"extractd/mocks"
)

func TestNewProvider_RegisteredFactory(t *testing.T) {
	fake := new(mocks.MockTextExtractor)
	extractor.RegisterProvider("fake", func(cfg *config.ExtractorConfig) (port.TextExtractor, error) {
		return fake, nil
	})

	ext, err := extractor.NewProvider(&config.ExtractorConfig{Provider: "fake"})

	assert.NoError(t, err)
	assert.Equal(t, fake, ext)
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	ext, err := extractor.NewProvider(&config.ExtractorConfig{Provider: "does-not-exist"})

	assert.Nil(t, ext)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor provider")
}
