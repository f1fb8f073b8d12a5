package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotspot"
	"hotspot/trace"
)

const flpFile = "../testdata/ev6.flp"

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func TestCircuitJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "circuit.json")
	run(t, "circuit", "-f", flpFile, "--json", "-o", out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	c, err := hotspot.Load(f)
	require.NoError(t, err)

	want, err := hotspot.New(flpFile, "")
	require.NoError(t, err)
	assert.Equal(t, want, c)
}

func TestCircuitText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "circuit.txt")
	run(t, "circuit", "-f", flpFile, "--json=false", "--dump-config", "-o", out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "units: 15\nnodes: 72\n"))
	assert.Contains(t, text, "hsink_inner_west\t")
}

func TestSteadyAndTransient(t *testing.T) {
	dir := t.TempDir()
	ptrace := filepath.Join(dir, "ev6.ptrace")
	names := []string{"L2_left", "L2", "L2_right", "Icache", "Dcache", "Bpred", "DTB",
		"FPAdd", "FPReg", "FPMul", "FPMap", "IntMap", "IntQ", "IntReg", "IntExec"}
	row := strings.TrimSuffix(strings.Repeat("1.0\t", len(names)), "\t")
	content := strings.Join(names, "\t") + "\n" + row + "\n" + row + "\n"
	require.NoError(t, os.WriteFile(ptrace, []byte(content), 0o644))

	steady := filepath.Join(dir, "ev6.steady")
	run(t, "steady", "-f", flpFile, "-p", ptrace, "-o", steady, "-s", "ambient=300")
	temps, err := trace.LoadSteady(steady, names)
	require.NoError(t, err)
	for _, v := range temps {
		assert.Greater(t, v, 300.0)
	}

	ttrace := filepath.Join(dir, "ev6.ttrace")
	html := filepath.Join(dir, "ev6.html")
	run(t, "transient", "-f", flpFile, "-p", ptrace, "-o", ttrace, "--html", html,
		"-s", "init_file="+steady, "-s", "ambient=300", "--method", "trapezoidal")
	data, err := os.ReadFile(ttrace)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Join(names, "\t"), lines[0])
	_, err = os.Stat(html)
	assert.NoError(t, err)
}
