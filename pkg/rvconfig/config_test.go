package rvconfig

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestBindFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "build"}
	v := New()
	BindFlags(cmd, v)

	cfg := Load(v)
	assert.Equal(t, "extensions", cfg.Root)
	assert.Equal(t, []string{"rv*", "unratified/rv*"}, cfg.Patterns)
	assert.False(t, cfg.IncludePseudo)
	assert.Equal(t, []string{"json"}, cfg.Emitters)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestBindFlagsOverride(t *testing.T) {
	cmd := &cobra.Command{Use: "build"}
	v := New()
	BindFlags(cmd, v)

	require := func(err error) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require(cmd.Flags().Set("root", "/opt/riscv-opcodes"))
	require(cmd.Flags().Set("pseudo", "true"))
	require(cmd.Flags().Set("emit", "json,c,latex"))

	cfg := Load(v)
	assert.Equal(t, "/opt/riscv-opcodes", cfg.Root)
	assert.True(t, cfg.IncludePseudo)
	assert.Equal(t, []string{"json", "c", "latex"}, cfg.Emitters)
}
