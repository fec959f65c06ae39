package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/relint/internal/rules"
)

func compile(t *testing.T, src string) []*rules.Rule {
	t.Helper()
	rs, err := rules.Parse([]byte(src), rules.Options{})
	require.NoError(t, err)
	return rs.Rules
}

const fixmeConfig = `
- name: No fixme
  pattern: FIXME
  hint: Fix it right away!
  error: false
`

func TestScanContent_NoOccurrences(t *testing.T) {
	rs := compile(t, fixmeConfig)
	assert.Empty(t, ScanContent("a.py", "print('hello')\n# TODO later\n", rs))
	assert.Empty(t, ScanContent("a.py", "", rs))
}

func TestScanContent_SingleLine(t *testing.T) {
	rs := compile(t, fixmeConfig)
	content := "line one\nline two\n# FIXME do something\nline four"

	matches := ScanContent("a.py", content, rs)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "a.py", m.Filename)
	assert.Same(t, rs[0], m.Rule)
	assert.Equal(t, "FIXME", m.Text())
	assert.Equal(t, 3, m.StartLine)
	assert.Equal(t, 3, m.EndLine)
	assert.Equal(t, 3, m.StartColumn)
	assert.Equal(t, 8, m.EndColumn)
	assert.Equal(t, "# FIXME do something", m.Lines())
	assert.Equal(t, "Fix it right away!", m.Rule.Hint)
}

func TestScanContent_FirstLine(t *testing.T) {
	rs := compile(t, fixmeConfig)
	matches := ScanContent("dummy.py", "# FIXME do something", rs)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].StartLine)
	assert.Equal(t, 1, matches[0].EndLine)
}

func TestScanContent_MultiLine(t *testing.T) {
	rs := compile(t, `
- name: block
  pattern: 'BEGIN[\s\S]*?END'
`)
	content := "x\nBEGIN\none\ntwo\nEND\ny\nBEGIN END"

	matches := ScanContent("f.txt", content, rs)
	require.Len(t, matches, 2)

	first := matches[0]
	assert.Equal(t, 2, first.StartLine)
	assert.Equal(t, 5, first.EndLine)
	assert.Equal(t, strings.Count(first.Text(), "\n"), first.EndLine-first.StartLine)

	second := matches[1]
	assert.Equal(t, 7, second.StartLine)
	assert.Equal(t, 7, second.EndLine)
}

func TestScanContent_TrailingNewlineInMatch(t *testing.T) {
	rs := compile(t, `
- name: line with newline
  pattern: 'foo\n'
`)
	matches := ScanContent("f", "foo\nbar", rs)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].StartLine)
	assert.Equal(t, 2, matches[0].EndLine, "end offset sits after the newline")
	assert.Equal(t, 1, matches[0].EndColumn)
}

func TestScanContent_AnchorsPerLine(t *testing.T) {
	rs := compile(t, `
- name: trailing whitespace
  pattern: '[ \t]+$'
`)
	matches := ScanContent("f", "ok\nbad  \nok\nbad\t", rs)
	require.Len(t, matches, 2)
	assert.Equal(t, 2, matches[0].StartLine)
	assert.Equal(t, 4, matches[1].StartLine)
}

func TestScanContent_RuleOrder(t *testing.T) {
	rs := compile(t, `
- name: second letter
  pattern: b
- name: first letter
  pattern: a
`)
	matches := ScanContent("f", "a b a b", rs)
	require.Len(t, matches, 4)

	var got []string
	for _, m := range matches {
		got = append(got, m.Rule.Name)
	}
	assert.Equal(t, []string{"second letter", "second letter", "first letter", "first letter"}, got)
	assert.Less(t, matches[0].Start, matches[1].Start)
}

func TestScanContent_FilePattern(t *testing.T) {
	rs := compile(t, `
- name: js only
  pattern: console\.log
  filePattern: .*\.js
`)
	assert.Len(t, ScanContent("app.js", "console.log(1)", rs), 1)
	assert.Empty(t, ScanContent("app.py", "console.log(1)", rs))
}

func TestScanContent_UnicodeColumns(t *testing.T) {
	rs := compile(t, fixmeConfig)
	matches := ScanContent("f", "ünïcödé FIXME", rs)
	require.Len(t, matches, 1)
	assert.Equal(t, 9, matches[0].StartColumn)
	assert.Equal(t, "FIXME", matches[0].Text())
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	rs := compile(t, fixmeConfig)

	text := filepath.Join(dir, "dummy.py")
	require.NoError(t, os.WriteFile(text, []byte("# FIXME do something"), 0o600))

	matches, err := ScanFile(text, rs)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, text, matches[0].Filename)

	t.Run("binary", func(t *testing.T) {
		png := filepath.Join(dir, "test.png")
		data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0xff, 0xfe, 'F', 'I', 'X', 'M', 'E'}
		require.NoError(t, os.WriteFile(png, data, 0o600))

		matches, err := ScanFile(png, rs)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("nul bytes", func(t *testing.T) {
		blob := filepath.Join(dir, "blob.py")
		require.NoError(t, os.WriteFile(blob, []byte("FIXME\x00\x00"), 0o600))

		matches, err := ScanFile(blob, rs)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("directory", func(t *testing.T) {
		matches, err := ScanFile(dir, rs)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ScanFile(filepath.Join(dir, "nope.py"), rs)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]struct {
		data []byte
		ok   bool
	}{
		"text":         {data: []byte("héllo\nworld\n"), ok: true},
		"empty":        {data: []byte{}, ok: true},
		"invalid utf8": {data: []byte{'a', 0xff, 'b'}, ok: false},
		"nul byte":     {data: []byte("FIXME\x00\x00"), ok: false},
		"trailing nul": {data: []byte("plain text\x00"), ok: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_"))
			require.NoError(t, os.WriteFile(path, tt.data, 0o600))

			content, ok, err := ReadText(path)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, string(tt.data), content)
			} else {
				assert.Empty(t, content)
			}
		})
	}
}

func TestScanContent_Regexp2Engine(t *testing.T) {
	rs, err := rules.Parse([]byte(`
- name: No line longer than 20 characters
  pattern: '.{20,}(?<!\s)(?=\s|$)'
  filePattern: .*\.(cpp|h)
`), rules.Options{Engine: rules.EngineRegexp2})
	require.NoError(t, err)

	content := "#include <x>\n// a comment that is certainly long enough\nint main();\n"
	matches := ScanContent("example.cpp", content, rs.Rules)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].StartLine)
}
