package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-binaural/dsp/resample"
	"github.com/cwbudde/algo-binaural/spatial/geom"
)

// parseVec parses "x,y,z".
func parseVec(s string) (geom.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return geom.V(v[0], v[1], v[2]), nil
}

// parseBox parses "WxHxD".
func parseBox(s string) (width, height, depth float64, err error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("want WxHxD, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return 0, 0, 0, fmt.Errorf("dimension %d of %q: %w", i, s, err)
		}
	}
	return v[0], v[1], v[2], nil
}

func parseQuality(s string) (resample.Quality, error) {
	switch strings.ToLower(s) {
	case "fast":
		return resample.QualityFast, nil
	case "balanced", "":
		return resample.QualityBalanced, nil
	case "best":
		return resample.QualityBest, nil
	default:
		return 0, fmt.Errorf("unknown quality %q", s)
	}
}
