package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const testDocument = `apple
Korean: 사과
1. I eat an apple.
banana
Korean: 바나나
2. A banana is yellow.
`

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command against a missing config file, so only
// defaults and VOCADRILL_* variables apply.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	out := new(bytes.Buffer)
	command := newRootCommand()
	command.SetIn(strings.NewReader(stdin))
	command.SetOut(out)
	command.SetErr(out)
	command.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := command.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	command := newRootCommand()

	assert.Equal(t, "vocadrill", command.Use)
	assert.True(t, command.HasSubCommands())
	configFlag := command.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	debugFlag := command.PersistentFlags().Lookup("debug")
	require.NotNil(t, debugFlag)
	assert.Equal(t, "false", debugFlag.DefValue)

	var names []string
	for _, c := range command.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"parse", "mask", "drill"}, names)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		debug     bool
	}{
		{name: "debug mode enabled", debugMode: true, debug: true},
		{name: "debug mode disabled", debugMode: false, debug: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.debugMode)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
		})
	}
}

func TestMaskCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "masks every occurrence", args: []string{"Apples and apple pie.", "apple"}, want: "________s and ________ pie.\n"},
		{name: "nothing to mask", args: []string{"I eat.", "apple"}, want: "I eat.\n"},
		{name: "missing word", args: []string{"I eat."}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"mask"}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
