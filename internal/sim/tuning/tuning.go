package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the runner's operational parameters. Values absent from the
// file keep their defaults.
type Tuning struct {
	TickRateHz int     `yaml:"tick_rate_hz"`
	RegionSize float64 `yaml:"region_size"`

	// WatchMargin scales a body's bounding-sphere radius to size its watch
	// proxy. Must stay above 1 so visibility is detected before contact.
	WatchMargin float64 `yaml:"watch_margin"`

	// WatchStaleIterations is the number of watch-refresh iterations a
	// shadow record may miss before it is dropped.
	WatchStaleIterations uint64 `yaml:"watch_stale_iterations"`

	GravityY float64 `yaml:"gravity_y"`

	PersistRetries   int `yaml:"persist_retries"`
	PersistBackoffMs int `yaml:"persist_backoff_ms"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:           60,
		RegionSize:           100,
		WatchMargin:          1.1,
		WatchStaleIterations: 3,
		GravityY:             -9.81,
		PersistRetries:       3,
		PersistBackoffMs:     50,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.TickRateHz <= 0 {
		return t, fmt.Errorf("tuning.yaml: tick_rate_hz must be positive")
	}
	if t.WatchMargin <= 1 {
		return t, fmt.Errorf("tuning.yaml: watch_margin must be > 1")
	}
	return t, nil
}

// Timestep is the fixed physics timestep in seconds.
func (t Tuning) Timestep() float64 {
	return 1 / float64(t.TickRateHz)
}
