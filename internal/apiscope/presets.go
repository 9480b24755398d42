package apiscope

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Preset is a named, ready to use example request.
type Preset struct {
	// Name is how the preset is selected with --example
	Name string `toml:"-"`

	// Description says what the API returns
	Description string `toml:"description"`

	// URL is the target URL
	URL string `toml:"url"`

	// Method is the HTTP method, empty means GET
	Method string `toml:"method"`

	// Headers is a JSON object of request headers
	Headers string `toml:"headers"`

	// Body is the JSON request body
	Body string `toml:"body"`
}

// fill returns fields with every empty field taken from the preset.
func (p Preset) fill(fields requestFields) requestFields {
	if fields.URL == "" {
		fields.URL = p.URL
	}

	if fields.Method == "" {
		fields.Method = p.Method
	}

	if fields.Headers == "" {
		fields.Headers = p.Headers
	}

	if fields.Body == "" {
		fields.Body = p.Body
	}

	return fields
}

// BuiltinPresets returns the example presets that ship with apiscope.
func BuiltinPresets() []Preset {
	return []Preset{
		{
			Name:        "jsonplaceholder",
			Description: "Fake users from JSONPlaceholder",
			URL:         "https://jsonplaceholder.typicode.com/users",
			Method:      "GET",
		},
		{
			Name:        "restcountries",
			Description: "Every country from REST Countries",
			URL:         "https://restcountries.com/v3.1/all",
			Method:      "GET",
		},
		{
			Name:        "dogapi",
			Description: "Dog breeds from The Dog API",
			URL:         "https://api.thedogapi.com/v1/breeds",
			Method:      "GET",
			Headers:     `{"x-api-key": "demo-key"}`,
		},
	}
}

// AllPresets returns the built in presets followed by those from the config file
// sorted by name. A config preset with the same name as a built in one, ignoring
// case, replaces it.
func (c Config) AllPresets() []Preset {
	builtins := BuiltinPresets()
	presets := make([]Preset, 0, len(builtins)+len(c.Presets))

	names := slices.Sorted(maps.Keys(c.Presets))

	for _, builtin := range builtins {
		index := slices.IndexFunc(names, func(name string) bool { return strings.EqualFold(name, builtin.Name) })
		if index != -1 {
			custom := c.Presets[names[index]]
			custom.Name = builtin.Name
			presets = append(presets, custom)
			continue
		}

		presets = append(presets, builtin)
	}

	for _, name := range names {
		if slices.ContainsFunc(builtins, func(p Preset) bool { return strings.EqualFold(p.Name, name) }) {
			continue
		}

		preset := c.Presets[name]
		preset.Name = name
		presets = append(presets, preset)
	}

	return presets
}

// Preset returns the preset called name, case insensitively.
func (c Config) Preset(name string) (Preset, error) {
	presets := c.AllPresets()

	for _, preset := range presets {
		if strings.EqualFold(preset.Name, strings.TrimSpace(name)) {
			return preset, nil
		}
	}

	names := make([]string, 0, len(presets))
	for _, preset := range presets {
		names = append(names, preset.Name)
	}

	return Preset{}, fmt.Errorf("no example named %q, available examples are %s", name, strings.Join(names, ", "))
}
