package utils

import (
	"strings"
	"unicode"
)

// CountWords counts the words in a markdown manuscript. Markdown syntax is
// stripped first so formatting characters never inflate the count.
func CountWords(markdown string) int {
	text := cleanMarkdown(markdown)

	count := 0
	for _, word := range strings.Fields(text) {
		if strings.TrimSpace(word) != "" {
			count++
		}
	}
	return count
}

func cleanMarkdown(markdown string) string {
	text := removeCodeBlocks(markdown)

	// Strip inline emphasis and code markers
	for _, marker := range []string{"`", "**", "*", "__", "_", "~~", "#", ">"} {
		text = strings.ReplaceAll(text, marker, "")
	}

	// Strip list markers
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		if len(line) > 2 && unicode.IsDigit(rune(line[0])) && line[1] == '.' {
			line = line[2:]
		}
		cleaned = append(cleaned, line)
	}
	text = strings.Join(cleaned, " ")

	// Strip horizontal rules
	text = strings.ReplaceAll(text, "---", "")

	return text
}

func removeCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			break
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+6:]
	}
	return text
}
