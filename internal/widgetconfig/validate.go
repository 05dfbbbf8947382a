package widgetconfig

import (
	"fmt"
	"strings"
)

// ValidationError names the offending key
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedLocales = map[string]bool{"it": true, "en": true}

// Validate checks the layout; defaults for optional keys are filled in place
func Validate(cfg *Config) error {
	if cfg.Locale == "" {
		cfg.Locale = "it"
	}
	if !supportedLocales[cfg.Locale] {
		return ValidationError{"locale", fmt.Sprintf("unsupported locale %q", cfg.Locale)}
	}
	if cfg.UnknownClientLabel == "" {
		cfg.UnknownClientLabel = "Sconosciuto"
	}

	if cfg.Years.From != 0 || cfg.Years.To != 0 {
		if cfg.Years.From <= 0 || cfg.Years.To < cfg.Years.From {
			return ValidationError{"years", "from must be > 0 and <= to"}
		}
	}

	if err := validateWidget("widgets.energy", cfg.Widgets.Energy); err != nil {
		return err
	}
	return validateWidget("widgets.telephony", cfg.Widgets.Telephony)
}

func validateWidget(field string, w Widget) error {
	seen := make(map[string]bool, len(w.Providers))
	for i, p := range w.Providers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return ValidationError{fmt.Sprintf("%s.providers[%d].name", field, i), "required"}
		}
		key := strings.ToLower(name)
		if seen[key] {
			return ValidationError{fmt.Sprintf("%s.providers[%d].name", field, i), fmt.Sprintf("duplicate provider %q", name)}
		}
		seen[key] = true
	}
	return nil
}
