package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterCSV = `EMP ID,Name,01/06,02/06,03/06,04/06,05/06,06/06,07/06,Pattern Code
e1,Asha,0700-1500,0700-1500,0700-1500,0700-1500,0700-1500,WOFF,WOFF,PAX-M
e2,Ravi,WOFF,0700-1500,1300-2100,2200-0600,0700-1500,1300-2100,2200-0600,NOT-A-CODE
,Mina,0700-1500,0700-1500,0700-1500,0700-1500,0700-1500,0700-1500,OFF,
`

// setupConfig points the global configuration at a fresh directory.
func setupConfig(t *testing.T, backend string) string {
	t.Helper()

	dir := t.TempDir()
	config.SetDefaults(viper.GetViper())
	viper.Set("storage.backend", backend)
	viper.Set("storage.learned_path", filepath.Join(dir, "learned_patterns.yaml"))
	viper.Set("storage.database_path", filepath.Join(dir, "rota.db"))
	viper.Set("classifier.weights_path", filepath.Join(dir, "pattern_model.json"))
	return dir
}

func writeRoster(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(rosterCSV), 0o600))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCmd(t *testing.T) {
	setupConfig(t, config.BackendFile)

	out, err := execute(t, classifyCmd(), "0700-1500", "WOFF", "22:00-06:00")
	require.NoError(t, err)
	assert.Contains(t, out, "M-RD-N")
}

func TestMatchCmd(t *testing.T) {
	setupConfig(t, config.BackendFile)

	tests := []struct {
		name    string
		want    string
		args    []string
		wantErr bool
	}{
		{
			name: "encoded pattern",
			args: []string{"--pattern", "M-M-M-M-M-RD-RD"},
			want: "5-2 Rotation",
		},
		{
			name: "raw cells",
			args: []string{"2200-0600", "2200-0600", "2200-0600", "2200-0600", "2200-0600", "2200-0600", "OFF"},
			want: "Regular Night",
		},
		{
			name:    "nothing to match",
			args:    []string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, matchCmd(), tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				var userErr *common.UserError
				assert.True(t, errors.As(err, &userErr))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "stage predefined")
		})
	}
}

func TestConfirmAndLearned(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			setupConfig(t, backend)

			out, err := execute(t, confirmCmd(), "M-A-M-A", "SHIFT-SWAP")
			require.NoError(t, err)
			assert.Contains(t, out, "Learned M-A-M-A")

			out, err = execute(t, learnedCmd())
			require.NoError(t, err)
			assert.Contains(t, out, "M-A-M-A")
			assert.Contains(t, out, "SHIFT-SWAP")
			assert.Contains(t, out, "Patterns: 1")
			assert.Contains(t, out, "Custom codes: 1")

			out, err = execute(t, matchCmd(), "--pattern", "M-A-M-A")
			require.NoError(t, err)
			assert.Contains(t, out, "SHIFT-SWAP")
			assert.Contains(t, out, "stage learned")
		})
	}
}

func TestDetectCmd(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)
	path := writeRoster(t, dir)

	out, err := execute(t, detectCmd(), "--progress=false", "--cluster", path)
	require.NoError(t, err)
	assert.Contains(t, out, "E1")
	assert.Contains(t, out, "5-2 Rotation")
	assert.Contains(t, out, "Roster Begin")
	assert.Contains(t, out, "Detection run")

	// Confident matches are learned and persisted.
	_, err = os.Stat(filepath.Join(dir, "learned_patterns.yaml"))
	require.NoError(t, err)

	out, err = execute(t, learnedCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "M-M-M-M-M-RD-RD")
}

func TestDetectCmd_MissingFile(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)

	_, err := execute(t, detectCmd(), "--progress=false", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func TestInsightsCmd(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)
	path := writeRoster(t, dir)

	out, err := execute(t, insightsCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows: 3")
	assert.Contains(t, out, "Top code")
	assert.Contains(t, out, "Share")
}

func TestClusterCmd(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)
	path := writeRoster(t, dir)

	_, err := execute(t, clusterCmd(), path)
	require.NoError(t, err)
}

func TestValidateCmd(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)
	path := writeRoster(t, dir)

	out, err := execute(t, validateCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Missing Employee IDs: 1")
	assert.Contains(t, out, "Empty Pattern Codes: 1")
	assert.Contains(t, out, "Found 1 invalid pattern codes")
	assert.Contains(t, out, "NOT-A-CODE")
}

func TestCatalogCmds(t *testing.T) {
	setupConfig(t, config.BackendFile)

	out, err := execute(t, catalogAddCmd(), "ZZ-CUSTOM")
	require.NoError(t, err)
	assert.Contains(t, out, "Added ZZ-CUSTOM")

	out, err = execute(t, catalogAddCmd(), "ZZ-CUSTOM")
	require.NoError(t, err)
	assert.Contains(t, out, "already in the catalog")

	out, err = execute(t, catalogSearchCmd(), "zz-c")
	require.NoError(t, err)
	assert.Contains(t, out, "ZZ-CUSTOM")

	out, err = execute(t, catalogListCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "PAX-M")
	assert.Contains(t, out, "ZZ-CUSTOM")
}

func TestTrainCmd(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)

	out, err := execute(t, trainCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "No learned patterns")

	_, err = execute(t, confirmCmd(), "M-M-M-M-M-RD-RD", "5-2 Rotation")
	require.NoError(t, err)
	_, err = execute(t, confirmCmd(), "N-N-N-N-RD-RD-RD", "Nights Rotation")
	require.NoError(t, err)

	out, err = execute(t, trainCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Trained on 2 learned patterns")

	_, err = os.Stat(filepath.Join(dir, "pattern_model.json"))
	assert.NoError(t, err)
}

func TestTrainCmd_FromRoster(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)
	path := writeRoster(t, dir)

	out, err := execute(t, trainCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Trained on 1 roster rows")

	_, err = os.Stat(filepath.Join(dir, "pattern_model.json"))
	require.NoError(t, err)

	// Training from a roster does not learn mappings.
	out, err = execute(t, learnedCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Patterns: 0")
}

func TestTrainCmd_RosterWithoutCodes(t *testing.T) {
	dir := setupConfig(t, config.BackendFile)
	path := filepath.Join(dir, "uncoded.csv")
	require.NoError(t, os.WriteFile(path, []byte("EMP ID,Name,01/06,02/06\ne1,Asha,0700-1500,WOFF\n"), 0o600))

	_, err := execute(t, trainCmd(), path)
	require.Error(t, err)
	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestInvalidConfig(t *testing.T) {
	setupConfig(t, "bogus")
	defer viper.Set("storage.backend", config.BackendFile)

	_, err := execute(t, learnedCmd())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, versionCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "rota dev")
}
