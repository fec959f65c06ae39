package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/relint/internal/logger"
	"github.com/JNZader/relint/internal/rules"
)

const ruleFile = `
- name: No ToDo
  pattern: '[tT][oO][dD][oO]'
  hint: Get it done right away!
  filePattern: .*\.py
  error: false

- name: No fixme
  pattern: '[fF][iI][xX][mM][eE]'
  hint: Fix it right away!
  filePattern: .*\.py
`

// setupProject creates a project directory with a rule file and the given
// files and makes it the working directory.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("GITHUB_ACTIONS", "")

	files[".relint.yml"] = ruleFile
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	t.Chdir(dir)
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes relint with args and returns the exit code, stdout and
// the log output.
func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, logs string) {
	t.Helper()

	var out, logBuf bytes.Buffer
	logger.SetOutput(&logBuf)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logger.LevelInfo)
	})

	resetFlags(rootCmd)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	code = Execute()
	return code, out.String(), logBuf.String()
}

func TestLint_ErrorMatch(t *testing.T) {
	setupProject(t, map[string]string{"dummy.py": "# FIXME do something"})

	code, out, _ := runCLI(t, "", "--format", "text", "dummy.py")

	assert.Equal(t, 1, code)
	assert.Equal(t, "dummy.py:1 No fixme\nHint: Fix it right away!\nFIXME\n", out)
}

func TestLint_WarningsOnly(t *testing.T) {
	setupProject(t, map[string]string{"dummy.py": "# TODO do something"})

	code, out, _ := runCLI(t, "", "--format", "text", "dummy.py")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "No ToDo")

	code, _, _ = runCLI(t, "", "--format", "text", "-W", "dummy.py")
	assert.Equal(t, 1, code, "fail-warnings escalates")

	code, out, _ = runCLI(t, "", "--format", "text", "--ignore-warnings", "dummy.py")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestLint_Clean(t *testing.T) {
	setupProject(t, map[string]string{"dummy.py": "print('hello')"})

	code, out, _ := runCLI(t, "", "--format", "text", ".")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestLint_GitHubFormat(t *testing.T) {
	setupProject(t, map[string]string{"dummy.py": "# FIXME do something"})

	code, out, _ := runCLI(t, "", "--format", "github", "dummy.py")
	assert.Equal(t, 1, code)
	assert.Equal(t, "::error file=dummy.py,line=1,endLine=1,col=3,colEnd=8,title=No fixme::Fix it right away!\n", out)
}

func TestLint_DiffFromStdin(t *testing.T) {
	setupProject(t, map[string]string{"dummy.py": "# FIXME one\nok\n# FIXME two\n"})

	diff := "diff --git a/dummy.py b/dummy.py\n" +
		"--- a/dummy.py\n" +
		"+++ b/dummy.py\n" +
		"@@ -2,0 +3 @@\n" +
		"+# FIXME two\n"

	code, out, _ := runCLI(t, diff, "--format", "text", "--msg-template", "{{.Filename}}:{{.Line}}", "--diff", "dummy.py")
	assert.Equal(t, 1, code)
	assert.Equal(t, "dummy.py:3\n", out)

	t.Run("files from diff", func(t *testing.T) {
		code, out, _ := runCLI(t, diff, "--format", "text", "--msg-template", "{{.Filename}}:{{.Line}}", "-d")
		assert.Equal(t, 1, code)
		assert.Equal(t, "dummy.py:3\n", out)
	})

	t.Run("lines outside the diff", func(t *testing.T) {
		other := strings.Replace(diff, "+3", "+2", 1)
		code, out, _ := runCLI(t, other, "--format", "text", "--diff", "dummy.py")
		assert.Equal(t, 0, code)
		assert.Empty(t, out)
	})
}

func TestLint_DiffSkipsDeletedFiles(t *testing.T) {
	setupProject(t, map[string]string{"kept.py": "ok\n# FIXME new\n"})

	diff := "diff --git a/gone.py b/gone.py\n" +
		"deleted file mode 100644\n" +
		"--- a/gone.py\n" +
		"+++ /dev/null\n" +
		"@@ -1 +0,0 @@\n" +
		"-# FIXME old\n" +
		"diff --git a/kept.py b/kept.py\n" +
		"--- a/kept.py\n" +
		"+++ b/kept.py\n" +
		"@@ -1,0 +2 @@\n" +
		"+# FIXME new\n"

	code, out, logs := runCLI(t, diff, "--format", "text", "--msg-template", "{{.Filename}}:{{.Line}}", "-d")
	assert.Equal(t, 1, code)
	assert.Equal(t, "kept.py:2\n", out)
	assert.NotContains(t, logs, "gone.py")

	t.Run("only deletions", func(t *testing.T) {
		deletions, _, _ := strings.Cut(diff, "diff --git a/kept.py")
		code, out, logs := runCLI(t, deletions, "--format", "text", "-d")
		assert.Equal(t, 0, code)
		assert.Empty(t, out)
		assert.NotContains(t, logs, "gone.py")
	})
}

func TestLint_DiffFlagsExclusive(t *testing.T) {
	setupProject(t, map[string]string{})

	code, _, logs := runCLI(t, "", "--diff", "--git-diff")
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "git-diff")
}

func TestLint_ConfigErrors(t *testing.T) {
	setupProject(t, map[string]string{
		"bad.yml":   "- name: broken\n  pattern: '('\n",
		"empty.yml": "",
		"dummy.py":  "# FIXME",
	})

	code, _, logs := runCLI(t, "", "-c", "bad.yml", "dummy.py")
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "ERROR")

	code, _, logs = runCLI(t, "", "-c", "missing.yml", "dummy.py")
	assert.Equal(t, 2, code)
	assert.NotEmpty(t, logs)

	code, out, logs := runCLI(t, "", "-c", "empty.yml", "--format", "text", "dummy.py")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Contains(t, logs, "WARN")
}

func TestLint_InvalidSettings(t *testing.T) {
	setupProject(t, map[string]string{})

	code, _, logs := runCLI(t, "", "--format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "output.format")
}

func TestLint_SettingsFile(t *testing.T) {
	setupProject(t, map[string]string{
		"dummy.py":         "# TODO",
		".relint-cli.yaml": "rules:\n  fail_warnings: true\noutput:\n  format: json\n",
	})

	code, out, _ := runCLI(t, "", "dummy.py")
	assert.Equal(t, 1, code)

	var decoded struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "error", decoded.Outcome)
}

func TestRulesCommand(t *testing.T) {
	setupProject(t, map[string]string{})

	code, out, _ := runCLI(t, "", "rules")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No ToDo")
	assert.Contains(t, out, "No fixme")
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "2 rules: 1 errors, 1 warnings")

	code, out, _ = runCLI(t, "", "rules", "--json", "-W")
	require.Equal(t, 0, code)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "warning", infos[0].Severity)
	assert.True(t, infos[0].Fails)
	assert.Equal(t, `.*\.py`, infos[0].FilePattern)
}

func TestExitCode(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(os.Stderr)

	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(&ExitError{Code: 1}))
	assert.Empty(t, logs.String())

	assert.Equal(t, 2, exitCode(&rules.ConfigError{Reason: rules.ReasonParse, Rule: -1}))
	assert.Equal(t, 2, exitCode(errors.New("boom")))
	assert.Contains(t, logs.String(), "boom")
}

func TestLint_Profiles(t *testing.T) {
	dir := setupProject(t, map[string]string{"dummy.py": "ok"})

	code, _, _ := runCLI(t, "", "--format", "text", "--cpuprofile", "cpu.prof", "--memprofile", "mem.prof", "dummy.py")
	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, "cpu.prof"))
	assert.FileExists(t, filepath.Join(dir, "mem.prof"))
	assert.Nil(t, prof)
}
