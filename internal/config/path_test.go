package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("TRACKER_DATA", "/srv/tracker")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: "/home/tester"},
		{input: "~/data/t.db", want: "/home/tester/data/t.db"},
		{input: "$TRACKER_DATA/t.db", want: "/srv/tracker/t.db"},
		{input: "/abs/t.db", want: "/abs/t.db"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	v := viper.New()
	assert.Equal(t, "/home/tester/.local/share/tracker/tracker.db", DatabasePath(v))

	v.Set("database.path", ":memory:")
	assert.Equal(t, ":memory:", DatabasePath(v))

	v.Set("database.path", "~/att.db")
	assert.Equal(t, "/home/tester/att.db", DatabasePath(v))
}
