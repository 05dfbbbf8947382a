package widgetconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/widgets.yaml")
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "Unknown", cfg.UnknownClientLabel)
	assert.Equal(t, 2022, cfg.Years.From)
	assert.Equal(t, []string{"Enel", "Iren"}, cfg.Widgets.Energy.Names())
	assert.Equal(t, []string{"TIM", "Enel"}, cfg.Widgets.Telephony.Names())

	enel := cfg.Widgets.Telephony.Providers[1]
	assert.Equal(t, "Enel Fibra", enel.DisplayLabel())
	assert.Equal(t, "green", enel.Color())

	iren := cfg.Widgets.Energy.Providers[1]
	assert.Equal(t, "Iren", iren.DisplayLabel())
	assert.Equal(t, "Iren", iren.Color())
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("locale: it\nwidgetz: {}\n"))
	assert.Error(t, err)
}

func TestParse_FillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("widgets:\n  energy:\n    providers:\n      - name: Enel\n"))
	require.NoError(t, err)

	assert.Equal(t, "it", cfg.Locale)
	assert.Equal(t, "Sconosciuto", cfg.UnknownClientLabel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"unsupported locale", func(c *Config) { c.Locale = "fr" }, "locale"},
		{"inverted years", func(c *Config) { c.Years.From, c.Years.To = 2030, 2020 }, "years"},
		{"blank provider", func(c *Config) { c.Widgets.Energy.Providers[0].Name = " " }, "widgets.energy.providers[0].name"},
		{"duplicate provider ignoring case", func(c *Config) {
			c.Widgets.Telephony.Providers = append(c.Widgets.Telephony.Providers, TrackedProvider{Name: "tim"})
		}, "widgets.telephony.providers[4].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	h2, err := Hash(Default())
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)

	other := Default()
	other.Locale = "en"
	h3, err := Hash(other)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault("testdata/missing.yaml")
	assert.Error(t, err)
}
