package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsAreValid(t *testing.T) {
	opts := Defaults()
	assert.NoError(t, opts.Validate())
	assert.Equal(t, []int{5, 10, 15, 20}, opts.Candidates)
	assert.Equal(t, 10, opts.Fallback)
	assert.Equal(t, 20*time.Second, opts.Window)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"no candidates", func(o *Options) { o.Candidates = nil }},
		{"zero candidate", func(o *Options) { o.Candidates = []int{0, 5} }},
		{"negative candidate", func(o *Options) { o.Candidates = []int{-5} }},
		{"duplicate candidate", func(o *Options) { o.Candidates = []int{5, 5, 10} }},
		{"decreasing candidates", func(o *Options) { o.Candidates = []int{10, 5} }},
		{"zero fallback", func(o *Options) { o.Fallback = 0 }},
		{"short window", func(o *Options) { o.Window = 500 * time.Millisecond }},
		{"negative timeout", func(o *Options) { o.ProbeTimeout = -time.Second }},
		{"negative fragments", func(o *Options) { o.Fragments = -1 }},
		{"proxy without scheme", func(o *Options) { o.Proxy = "127.0.0.1:3128" }},
		{"proxy without host", func(o *Options) { o.Proxy = "http://" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Defaults()
			tt.modify(&opts)
			assert.Error(t, opts.Validate())
		})
	}
}

func TestValidateAcceptsProxy(t *testing.T) {
	opts := Defaults()
	opts.Proxy = "socks5://127.0.0.1:1080"
	assert.NoError(t, opts.Validate())
}
