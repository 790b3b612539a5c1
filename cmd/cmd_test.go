package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dossier-generator/internal/logger"
	"github.com/ginjaninja78/dossier-generator/internal/pipeline"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Cleanup(func() {
		generateForm, generateOut, summaryForm, validateForm, issueLog = "", "", "", "", ""
		strict, dryRun, noArchive, filePath, verbose = false, false, false, "", false
		cfgFile = "config.yaml"
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeWorkspace(t *testing.T, form string) (dir, configPath, formPath string) {
	t.Helper()
	dir = t.TempDir()

	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"input_dir: "+filepath.Join(dir, "input")+"\n"+
			"output_dir: "+filepath.Join(dir, "output")+"\n"+
			"input_archive_dir: "+filepath.Join(dir, "archive")+"\n"+
			"log_level: error\n"), 0644))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "input"), 0755))
	formPath = filepath.Join(dir, "input", "redex.yaml")
	require.NoError(t, os.WriteFile(formPath, []byte(form), 0644))
	return dir, configPath, formPath
}

const scenarioForm = `
rede: RedeX
mercado: M
cidade: C
uf: UF
vendedor: V
sell_out:
  - family: REFRIKO
    fund: 1000.50
merchandising:
  - fund: 500
    option: ILHA
`

func TestGenerateCommand(t *testing.T) {
	dir, configPath, formPath := writeWorkspace(t, scenarioForm)

	out, err := runCLI(t, "generate", "--config", configPath, "--form", formPath)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "output", "dossie_RedeX_*.pdf"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Contains(t, out, pipeline.MessageSuccess)
	assert.Contains(t, out, "Ready to be sent for signature.")
	assert.Contains(t, out, "Grand total:       R$ 1500.50")
	assert.Contains(t, out, "Approval:          not required")
}

func TestProcessCommand_ArchivesForms(t *testing.T) {
	dir, configPath, formPath := writeWorkspace(t, scenarioForm)

	out, err := runCLI(t, "process", "--config", configPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Successful:      1")
	assert.NoFileExists(t, formPath)
	assert.FileExists(t, filepath.Join(dir, "archive", "redex.yaml"))
}

func TestProcessCommand_DryRun(t *testing.T) {
	dir, configPath, formPath := writeWorkspace(t, scenarioForm)

	out, err := runCLI(t, "process", "--config", configPath, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "form is valid")
	assert.FileExists(t, formPath)
	matches, _ := filepath.Glob(filepath.Join(dir, "output", "*.pdf"))
	assert.Empty(t, matches)
}

func TestSummaryCommand(t *testing.T) {
	_, configPath, formPath := writeWorkspace(t, scenarioForm)

	out, err := runCLI(t, "summary", "--config", configPath, "--form", formPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Network:           RedeX")
	assert.Contains(t, out, "SELL OUT:          1 row(s)")
	assert.Contains(t, out, "MERCHANDISING:     1 row(s)")
}

func TestValidateCommand_Invalid(t *testing.T) {
	_, configPath, formPath := writeWorkspace(t, scenarioForm+"attachments:\n  - missing.pdf\n")

	out, err := runCLI(t, "validate", "--config", configPath, "--form", formPath)

	require.Error(t, err)
	assert.Contains(t, out, "[ERROR] ATTACHMENTS row 1")
}

func TestConsoleNotifier(t *testing.T) {
	var out bytes.Buffer
	n := newConsoleNotifier(&out, logger.Discard())

	n.SetBusy(true)
	n.Toast("done", pipeline.SeveritySuccess)
	n.Toast("boom", pipeline.SeverityError)
	n.SignatureActionAvailable()

	assert.Equal(t, "Generating dossier...\n  ✓ done\n  ✗ boom\n", out.String())
	assert.True(t, n.signatureReady)
}
