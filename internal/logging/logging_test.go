package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/YJlang/gacha/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		app       config.AppConfig
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{
			name:      "development text formatter",
			app:       config.AppConfig{Environment: "development", LogLevel: "warn"},
			wantLevel: logrus.WarnLevel,
		},
		{
			name:      "production json formatter",
			app:       config.AppConfig{Environment: "production", LogLevel: "error"},
			wantLevel: logrus.ErrorLevel,
			wantJSON:  true,
		},
		{
			name:      "debug flag wins",
			app:       config.AppConfig{Environment: "production", LogLevel: "error", Debug: true},
			wantLevel: logrus.DebugLevel,
			wantJSON:  true,
		},
		{
			name:      "unknown level falls back to info",
			app:       config.AppConfig{Environment: "staging", LogLevel: "verbose"},
			wantLevel: logrus.InfoLevel,
			wantJSON:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.app)
			assert.Equal(t, tt.wantLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
