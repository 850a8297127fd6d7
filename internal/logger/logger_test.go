package logger

import (
	"testing"

	"alertdesk/internal/config"
)

func TestNew(t *testing.T) {
	cases := []config.LogConfig{
		{Level: "debug", Encoding: "console"},
		{Level: "info", Encoding: "json", Sampling: true},
		{Level: "nonsense", Encoding: "yaml"},
	}
	for _, cfg := range cases {
		log, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%+v): %v", cfg, err)
		}
		if log == nil {
			t.Fatalf("New(%+v) returned nil logger", cfg)
		}
	}
}
