package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionNamesSorted(t *testing.T) {
	cfg := &Config{Regions: map[string]RegionConfig{
		"us": {},
		"cn": {},
		"eu": {},
	}}
	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"cn", "eu", "us"}, cfg.RegionNames())
	}
}
