// Package fragment builds the shell snippets that provisioning sends to a
// player. Every interpolated value goes through Quote or Home, so paths and
// host-derived strings can never break out of their argument.
package fragment

import (
	"strings"
)

// Fragment is one POSIX shell snippet, possibly spanning several lines.
type Fragment string

// String returns the fragment's shell text.
func (f Fragment) String() string {
	return string(f)
}

// Raw wraps shell text that carries no interpolated values.
func Raw(s string) Fragment {
	return Fragment(s)
}

// Quote quotes an argument for POSIX shells. Common safe characters pass
// through unquoted; anything else is single-quoted with the standard '\''
// escape for embedded single quotes.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, func(r rune) bool {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			return false
		}
		if r >= '0' && r <= '9' {
			return false
		}
		switch r {
		case '-', '_', '.', '/', '@', ':', ',', '+', '=':
			return false
		}
		return true
	}) == -1 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Home returns a double-quoted path under the remote user's home directory.
// $HOME is expanded by the remote shell; rel is escaped so nothing else is.
func Home(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return `"$HOME"`
	}
	return `"$HOME/` + escapeDouble(rel) + `"`
}

func escapeDouble(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '"', '$', '`':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Word is an already-rendered shell word, such as the result of Arg or
// HomeWord, that Command uses as is.
type Word string

// Arg quotes a literal argument.
func Arg(s string) Word {
	return Word(Quote(s))
}

// HomeWord is Home as a Word.
func HomeWord(rel string) Word {
	return Word(Home(rel))
}

// Command renders a simple command from a literal name and rendered words.
// Untyped string constants convert to Word unquoted, so they must be literal
// shell words written in code.
func Command(name string, args ...Word) Fragment {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Quote(name))
	for _, a := range args {
		parts = append(parts, string(a))
	}
	return Fragment(strings.Join(parts, " "))
}

// Strict makes the script stop at the first failing command.
func Strict() Fragment {
	return Raw("set -e")
}

// MkdirAll creates a directory and its parents if missing.
func MkdirAll(path Word) Fragment {
	return Command("mkdir", "-p", path)
}

// WriteFile replaces path with content, adding a trailing newline.
func WriteFile(path Word, content string) Fragment {
	return Fragment("printf '%s\\n' " + Quote(content) + " > " + string(path))
}

// WriteLines replaces path with one line per word. Words are rendered by the
// remote shell, so Home paths expand there.
func WriteLines(path Word, lines ...Word) Fragment {
	if len(lines) == 0 {
		return Fragment(": > " + string(path))
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, string(l))
	}
	return Fragment("printf '%s\\n' " + strings.Join(parts, " ") + " > " + string(path))
}

// AppendLineOnce appends line to path unless an identical line is already
// there, so repeated runs never duplicate it.
func AppendLineOnce(line string, path Word) Fragment {
	q := Quote(line)
	return Fragment("grep -qxF -- " + q + " " + string(path) + " 2>/dev/null || printf '%s\\n' " + q + " >> " + string(path))
}

// IfMissing runs body only when the named command is not on PATH.
func IfMissing(command string, body ...Fragment) Fragment {
	var b strings.Builder
	b.WriteString("if ! command -v " + Quote(command) + " >/dev/null 2>&1\nthen\n")
	for _, f := range body {
		b.WriteString("    " + string(f) + "\n")
	}
	b.WriteString("fi")
	return Fragment(b.String())
}

// IgnoreFailure runs f and discards its exit status and output.
func IgnoreFailure(f Fragment) Fragment {
	return Fragment(string(f) + " >/dev/null 2>&1 || true")
}

// NoStdin runs f with stdin from /dev/null, so it cannot consume the rest of
// a script that is itself being read from stdin.
func NoStdin(f Fragment) Fragment {
	return Fragment(string(f) + " </dev/null")
}

// Join renders fragments as one script, one fragment per line.
func Join(fragments []Fragment) string {
	lines := make([]string, 0, len(fragments))
	for _, f := range fragments {
		lines = append(lines, string(f))
	}
	return strings.Join(lines, "\n")
}
