package main

import (
	"encoding/json"
	"fmt"
	"os"

	"periodica/internal/life"
)

// searchConfig carries the search subcommand's settings. A JSON config file
// can provide any of them; flags given on the command line win.
type searchConfig struct {
	DBPath      string
	Table       string
	Period      int
	SeedTop     string
	SeedMid     string
	TargetTop   string
	TargetMid   string
	CacheGiB    int
	Gen         int
	MaxSteps    uint64
	ReportEvery uint64
}

func loadSearchConfig(path string) (searchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return searchConfig{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return searchConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	var cfg searchConfig
	if v, ok := asString(raw["db"]); ok {
		cfg.DBPath = v
	}
	if v, ok := asString(raw["table"]); ok {
		cfg.Table = v
	}
	if v, ok := asInt(raw["period"]); ok {
		cfg.Period = v
	}
	if v, ok := asString(raw["seed_top"]); ok {
		cfg.SeedTop = v
	}
	if v, ok := asString(raw["seed_mid"]); ok {
		cfg.SeedMid = v
	}
	if v, ok := asString(raw["target_top"]); ok {
		cfg.TargetTop = v
	}
	if v, ok := asString(raw["target_mid"]); ok {
		cfg.TargetMid = v
	}
	if v, ok := asInt(raw["cache_gb"]); ok {
		cfg.CacheGiB = v
	}
	if v, ok := asInt(raw["gen"]); ok {
		cfg.Gen = v
	}
	if v, ok := asInt(raw["max_steps"]); ok {
		cfg.MaxSteps = uint64(v)
	}
	if v, ok := asInt(raw["report_every"]); ok {
		cfg.ReportEvery = uint64(v)
	}
	return cfg, nil
}

// overriddenBy overlays flag values on top of the file config; a flag left at
// its zero value defers to the file.
func (c searchConfig) overriddenBy(flags searchConfig) searchConfig {
	out := c
	if flags.DBPath != "" {
		out.DBPath = flags.DBPath
	}
	if flags.Table != "" {
		out.Table = flags.Table
	}
	if flags.Period > 0 {
		out.Period = flags.Period
	}
	if flags.SeedTop != "" {
		out.SeedTop = flags.SeedTop
	}
	if flags.SeedMid != "" {
		out.SeedMid = flags.SeedMid
	}
	if flags.TargetTop != "" {
		out.TargetTop = flags.TargetTop
	}
	if flags.TargetMid != "" {
		out.TargetMid = flags.TargetMid
	}
	if flags.CacheGiB > 0 {
		out.CacheGiB = flags.CacheGiB
	}
	if flags.Gen > 0 {
		out.Gen = flags.Gen
	}
	if flags.MaxSteps > 0 {
		out.MaxSteps = flags.MaxSteps
	}
	if flags.ReportEvery > 0 {
		out.ReportEvery = flags.ReportEvery
	}
	return out
}

// seedTuples parses the seed rows. An empty top seed defaults to all-zero
// rows above the pattern.
func (c searchConfig) seedTuples() (top, mid life.RowTuple, err error) {
	if c.SeedTop == "" {
		top = life.ZeroTuple(c.Period)
	} else {
		top, err = parseTuple(c.SeedTop, c.Period, "seed top")
		if err != nil {
			return nil, nil, err
		}
	}
	mid, err = parseTuple(c.SeedMid, c.Period, "seed mid")
	if err != nil {
		return nil, nil, err
	}
	return top, mid, nil
}

// targetTuples parses the target rows; both empty means the default all-zero
// target inside the driver.
func (c searchConfig) targetTuples() (top, mid life.RowTuple, err error) {
	if c.TargetTop == "" && c.TargetMid == "" {
		return nil, nil, nil
	}
	if c.TargetTop != "" {
		top, err = parseTuple(c.TargetTop, c.Period, "target top")
		if err != nil {
			return nil, nil, err
		}
	} else {
		top = life.ZeroTuple(c.Period)
	}
	if c.TargetMid != "" {
		mid, err = parseTuple(c.TargetMid, c.Period, "target mid")
		if err != nil {
			return nil, nil, err
		}
	} else {
		mid = life.ZeroTuple(c.Period)
	}
	return top, mid, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}
