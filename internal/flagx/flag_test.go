package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-c", "conf.json", "-user-url", "http://x"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "equals form",
			args:         []string{"-store=memory", "-c", "conf.json"},
			allowedFlags: []string{"-store"},
			want:         []string{"-store=memory"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "dangling flag kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-store=redis"},
			allowedFlags: []string{"-c", "-store"},
			want:         []string{"-c", "-store=redis"},
		},
		{
			name:         "repeats preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestStringFlag(t *testing.T) {
	assert.Equal(t, "b.json", StringFlag([]string{"-c", "a.json", "-config", "b.json"}, "c", "config"))
	assert.Equal(t, "", StringFlag([]string{"-x", "1"}, "c", "config"))
	assert.Equal(t, "v", StringFlag([]string{"-k=v"}, "k"))
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"varta", "-log-level", "debug", "-c", "/etc/varta.json"}
	assert.Equal(t, "/etc/varta.json", ConfigFileFlag())

	os.Args = []string{"varta"}
	assert.Empty(t, ConfigFileFlag())
}
