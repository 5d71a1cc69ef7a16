package tui

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// Replaced in tests.
var (
	readClipboard  = readClipboardText
	writeClipboard = clipboard.WriteAll
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// pasteLabel turns clipboard contents into a single-line label. Rich text
// copied from editors arrives as RTF or HTML.
func pasteLabel(text string) string {
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case r >= 32:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<span"))
}

// extractTextFromRTF drops groups, control words and their parameters,
// keeping escaped literals and \'hh bytes as Latin-1.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	b := []byte(rtf)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '{' || c == '}':
		case c == '\\' && i+1 < len(b):
			next := b[i+1]
			switch {
			case next == '\'' && i+3 < len(b):
				if v, err := strconv.ParseUint(string(b[i+2:i+4]), 16, 8); err == nil {
					out.WriteRune(rune(v))
				}
				i += 3
			case next == '\\' || next == '{' || next == '}':
				out.WriteByte(next)
				i++
			case next == '~':
				out.WriteByte(' ')
				i++
			case isLetter(next):
				j := i + 1
				for j < len(b) && isLetter(b[j]) {
					j++
				}
				word := string(b[i+1 : j])
				for j < len(b) && (b[j] == '-' || (b[j] >= '0' && b[j] <= '9')) {
					j++
				}
				if j < len(b) && b[j] == ' ' {
					j++
				}
				if word == "par" || word == "line" || word == "tab" {
					out.WriteByte(' ')
				}
				i = j - 1
			default:
				i++
			}
		case c >= 32 && c < 127:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

func extractTextFromHTML(html string) string {
	var out strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			out.WriteRune(' ')
		case !inTag:
			out.WriteRune(r)
		}
	}
	return htmlEntities.Replace(out.String())
}
