package config

import "time"

// Config is the root application configuration.
type Config struct {
	Anki       AnkiConfig       `yaml:"anki"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Reformat   ReformatConfig   `yaml:"reformat"`
	Log        LogConfig        `yaml:"log"`
}

// AnkiConfig holds AnkiConnect settings and the deck/field names to operate on.
type AnkiConfig struct {
	URL         string        `yaml:"url"          env:"ANKI_URL"          env-default:"http://localhost:8765"`
	Timeout     time.Duration `yaml:"timeout"      env:"ANKI_TIMEOUT"      env-default:"10s"`
	DeckName    string        `yaml:"deck_name"    env:"ANKI_DECK_NAME"    env-default:"GRE Vocabulary"`
	WordField   string        `yaml:"word_field"   env:"ANKI_WORD_FIELD"   env-default:"Word"`
	AnswerField string        `yaml:"answer_field" env:"ANKI_ANSWER_FIELD" env-default:"Details"`
}

// DictionaryConfig holds dictionary lookup settings.
type DictionaryConfig struct {
	BaseURL         string        `yaml:"base_url"         env:"DICT_BASE_URL"         env-default:"https://dict.meowrain.cn/api/dictionary/en-cn"`
	Timeout         time.Duration `yaml:"timeout"          env:"DICT_TIMEOUT"          env-default:"10s"`
	RatePerSec      float64       `yaml:"rate_per_sec"     env:"DICT_RATE_PER_SEC"     env-default:"5"`
	Burst           int           `yaml:"burst"            env:"DICT_BURST"            env-default:"1"`
	CacheSize       int           `yaml:"cache_size"       env:"DICT_CACHE_SIZE"       env-default:"512"`
	FallbackEnabled bool          `yaml:"fallback_enabled" env:"DICT_FALLBACK_ENABLED" env-default:"false"`
	FallbackURL     string        `yaml:"fallback_url"     env:"DICT_FALLBACK_URL"     env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
}

// ReformatConfig holds pipeline behavior settings.
type ReformatConfig struct {
	DryRun  bool          `yaml:"dry_run"  env:"REFORMAT_DRY_RUN"  env-default:"false"`
	Timeout time.Duration `yaml:"timeout"  env:"REFORMAT_TIMEOUT"  env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
