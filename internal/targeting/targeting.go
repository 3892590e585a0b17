// Package targeting serves the lookup datasets behind the campaign
// targeting step: countries, languages, states, cities, and interests.
package targeting

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var rawData []byte

type dataset struct {
	Countries []string            `yaml:"countries"`
	Languages []string            `yaml:"languages"`
	States    map[string][]string `yaml:"states"`
	Cities    map[string][]string `yaml:"cities"`
	Interests []string            `yaml:"interests"`
}

var (
	loadOnce sync.Once
	loaded   dataset
	loadErr  error
)

func load() (dataset, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(rawData, &loaded)
	})
	return loaded, loadErr
}

// Countries returns the supported target countries
func Countries() ([]string, error) {
	d, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load targeting data: %w", err)
	}
	return d.Countries, nil
}

// Languages returns the supported targeting languages
func Languages() ([]string, error) {
	d, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load targeting data: %w", err)
	}
	return d.Languages, nil
}

// Interests returns the interest categories available for targeting
func Interests() ([]string, error) {
	d, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load targeting data: %w", err)
	}
	return d.Interests, nil
}

// States returns the states/regions for a country. Countries without
// regional data return an empty list, not an error.
func States(country string) ([]string, error) {
	d, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load targeting data: %w", err)
	}
	return d.States[country], nil
}

// Cities returns the major cities for a country. Countries without
// city data return an empty list, not an error.
func Cities(country string) ([]string, error) {
	d, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load targeting data: %w", err)
	}
	return d.Cities[country], nil
}

// IsCountry reports whether name is a supported target country
func IsCountry(name string) bool {
	d, err := load()
	if err != nil {
		return false
	}
	for _, c := range d.Countries {
		if c == name {
			return true
		}
	}
	return false
}
