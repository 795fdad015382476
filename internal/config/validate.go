package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Anki.DeckName == "" {
		return fmt.Errorf("anki.deck_name must not be empty")
	}
	if c.Anki.WordField == "" {
		return fmt.Errorf("anki.word_field must not be empty")
	}
	if c.Anki.AnswerField == "" {
		return fmt.Errorf("anki.answer_field must not be empty")
	}
	if err := validURL(c.Anki.URL); err != nil {
		return fmt.Errorf("anki.url: %w", err)
	}

	if err := validURL(c.Dictionary.BaseURL); err != nil {
		return fmt.Errorf("dictionary.base_url: %w", err)
	}
	if c.Dictionary.FallbackEnabled {
		if err := validURL(c.Dictionary.FallbackURL); err != nil {
			return fmt.Errorf("dictionary.fallback_url: %w", err)
		}
	}
	if c.Dictionary.RatePerSec <= 0 {
		return fmt.Errorf("dictionary.rate_per_sec must be > 0 (got %v)", c.Dictionary.RatePerSec)
	}
	if c.Dictionary.Burst < 1 {
		return fmt.Errorf("dictionary.burst must be >= 1 (got %d)", c.Dictionary.Burst)
	}
	if c.Dictionary.CacheSize < 1 {
		return fmt.Errorf("dictionary.cache_size must be >= 1 (got %d)", c.Dictionary.CacheSize)
	}

	return nil
}

func validURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
