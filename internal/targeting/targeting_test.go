package targeting

import "testing"

func TestDatasetLoads(t *testing.T) {
	countries, err := Countries()
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	if len(countries) == 0 {
		t.Fatal("no countries in dataset")
	}

	languages, err := Languages()
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if len(languages) == 0 {
		t.Fatal("no languages in dataset")
	}

	interests, err := Interests()
	if err != nil {
		t.Fatalf("Interests: %v", err)
	}
	if len(interests) == 0 {
		t.Fatal("no interests in dataset")
	}
}

func TestIsCountry(t *testing.T) {
	if !IsCountry("United States") {
		t.Error("United States not recognized")
	}
	if IsCountry("Atlantis") {
		t.Error("Atlantis recognized as a country")
	}
	if IsCountry("") {
		t.Error("empty string recognized as a country")
	}
}

func TestStatesAndCities(t *testing.T) {
	states, err := States("United States")
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if len(states) == 0 {
		t.Error("no states for United States")
	}

	// Countries without regional data return an empty list, not an error
	states, err = States("Atlantis")
	if err != nil {
		t.Fatalf("States for unknown country: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("states for unknown country = %v", states)
	}

	cities, err := Cities("United States")
	if err != nil {
		t.Fatalf("Cities: %v", err)
	}
	if len(cities) == 0 {
		t.Error("no cities for United States")
	}
}
