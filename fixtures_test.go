package showroom3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec3) bool {
	return almostEqual(a.X(), b.X()) && almostEqual(a.Y(), b.Y()) && almostEqual(a.Z(), b.Z())
}

// testConfig is a small car configurator: paint before wheels before
// extras, with a sport-wheel override that fires when red paint is
// selected.
func testConfig() *Config {
	return &Config{
		Chapters: []Chapter{
			{
				ID: "body", Focus: "overview", Title: "Body",
				Visibility: map[string]bool{"measuring-rig": false},
				Groups: []Group{{
					ID: "paint", Title: "Paint",
					Options: []Option{
						{Value: "red-paint", Label: "Red", Visibility: map[string]bool{"body-blue": false}},
						{Value: "blue-paint", Label: "Blue", Visibility: map[string]bool{"body-red": false}},
					},
				}},
			},
			{
				ID: "wheels", Focus: "wheels", Title: "Wheels",
				Groups: []Group{{
					ID: "wheels", Title: "Wheel set",
					Options: []Option{
						{Value: "standard-wheels", Label: "Standard", Visibility: map[string]bool{"wheels-sport": false}},
						{Value: "sport-wheels", Label: "Sport", Visibility: map[string]bool{"wheels-standard": false}},
					},
				}},
			},
			{
				ID: "extras", Focus: "rear", Title: "Extras",
				Groups: []Group{{
					ID: "spoiler", Title: "Spoiler",
					Options: []Option{
						{Value: "no-spoiler", Label: "None", Visibility: map[string]bool{"spoiler": false}},
						{Value: "spoiler", Label: "Spoiler"},
					},
				}},
			},
		},
		PricingRules: PricingRules{
			"red-paint":  {"red-paint": 500},
			"blue-paint": {"blue-paint": 650},
			"sport-wheels": {
				"sport-wheels": 300,
				"red-paint":    400,
			},
			"spoiler": {"spoiler": 250},
		},
		Scene: Scene{
			FocusTargets: map[string]FocusTarget{
				"overview": {Radius: 5, Polar: degToRad(60), Azimuth: degToRad(30), LookAt: mgl64.Vec3{0, 0, 0}},
				"wheels":   {Radius: 3, Polar: degToRad(75), Azimuth: degToRad(80), LookAt: mgl64.Vec3{0, 0.4, 0}},
				"rear":     {Radius: 4, Polar: degToRad(70), Azimuth: degToRad(180), LookAt: mgl64.Vec3{-2, 1.5, 0}},
			},
		},
	}
}
