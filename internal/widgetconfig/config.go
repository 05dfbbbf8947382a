package widgetconfig

import "github.com/wonny/contractdesk/internal/engine"

// Config is the dashboard layout: which providers each tally widget tracks,
// how they are labelled, and the locale used for trend month labels.
type Config struct {
	Locale             string           `yaml:"locale" json:"locale"`
	UnknownClientLabel string           `yaml:"unknown_client_label" json:"unknown_client_label"`
	Years              engine.YearRange `yaml:"years" json:"years"`
	Widgets            Widgets          `yaml:"widgets" json:"widgets"`
}

type Widgets struct {
	Energy    Widget `yaml:"energy" json:"energy"`
	Telephony Widget `yaml:"telephony" json:"telephony"`
}

// Widget is one provider tally panel
type Widget struct {
	Title     string            `yaml:"title" json:"title"`
	Providers []TrackedProvider `yaml:"providers" json:"providers"`
}

// TrackedProvider is a provider name matched against contracts (Name) plus
// its presentation keys. Label defaults to Name, ColorKey to Name.
type TrackedProvider struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	ColorKey string `yaml:"color_key,omitempty" json:"color_key,omitempty"`
}

// DisplayLabel returns Label, or Name when unset
func (p TrackedProvider) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Color returns ColorKey, or Name when unset
func (p TrackedProvider) Color() string {
	if p.ColorKey != "" {
		return p.ColorKey
	}
	return p.Name
}

// Names lists the provider names in widget order
func (w Widget) Names() []string {
	names := make([]string, 0, len(w.Providers))
	for _, p := range w.Providers {
		names = append(names, p.Name)
	}
	return names
}

// Default mirrors the layout the agency has always used
func Default() *Config {
	return &Config{
		Locale:             "it",
		UnknownClientLabel: "Sconosciuto",
		Years:              engine.YearRange{From: 2023, To: 2050},
		Widgets: Widgets{
			Energy: Widget{
				Title: "Riepilogo Contratti Energia e Gas",
				Providers: []TrackedProvider{
					{Name: "Enel"}, {Name: "Duferco"}, {Name: "Edison"}, {Name: "Lenergia"}, {Name: "A2A"},
				},
			},
			Telephony: Widget{
				Title: "Riepilogo Contratti Telefonia",
				Providers: []TrackedProvider{
					{Name: "TIM"}, {Name: "Vodafone"}, {Name: "WindTre"}, {Name: "Enel", Label: "Enel Fibra"},
				},
			},
		},
	}
}
