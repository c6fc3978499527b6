package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	settings := Default()

	assert.Equal(t, 25, settings.WorkDuration)
	assert.Equal(t, 5, settings.ShortBreakDuration)
	assert.Equal(t, 15, settings.LongBreakDuration)
	assert.Equal(t, 4, settings.LongBreakInterval)
	assert.False(t, settings.AutoStartBreaks)
	assert.False(t, settings.AutoStartWork)
	require.NoError(t, Validate(settings), "defaults must satisfy the schema")
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workDuration: 50\n"), 0o644))

	settings, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 50, settings.WorkDuration)
	assert.Equal(t, 5, settings.ShortBreakDuration, "unset fields keep their defaults")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workDuration: [nope"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.yaml")
	settings := Default()
	settings.WorkDuration = 45
	settings.AutoStartBreaks = true

	require.NoError(t, Save(path, settings))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		field   string
		wantErr bool
	}{
		{"valid defaults", func(*Settings) {}, "", false},
		{"zero work duration", func(s *Settings) { s.WorkDuration = 0 }, "workDuration", true},
		{"negative short break", func(s *Settings) { s.ShortBreakDuration = -5 }, "shortBreakDuration", true},
		{"zero long break", func(s *Settings) { s.LongBreakDuration = 0 }, "longBreakDuration", true},
		{"zero interval", func(s *Settings) { s.LongBreakInterval = 0 }, "longBreakInterval", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Default()
			tt.mutate(&settings)

			err := Validate(settings)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.NotContains(t, fieldErr.Field, "#",
				"the schema's definition selector never leaks into the field path")
		})
	}
}

func TestFieldPath_StripsDefinitionSelectors(t *testing.T) {
	assert.Equal(t, []string{"workDuration"}, fieldPath([]string{"#Settings", "workDuration"}))
	assert.Equal(t, []string{"workDuration"}, fieldPath([]string{"workDuration"}))
	assert.Empty(t, fieldPath([]string{"#Settings"}))
}

func TestSave_RejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.yaml")
	settings := Default()
	settings.WorkDuration = 0

	err := Save(path, settings)

	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on validation failure")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workDuration: 0\n"), 0o644))

	_, err := Load(path)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "workDuration", fieldErr.Field)
}
