package parse

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates a leading `---` YAML block from the body. It
// returns the raw YAML, the remaining markdown and the number of lines
// removed. Without a closed block the whole input is body.
func splitFrontmatter(content []byte) (fm, body []byte, lines int) {
	first, rest, ok := cutLine(content)
	if !ok || string(bytes.TrimRight(first, " \t\r")) != "---" {
		return nil, content, 0
	}
	lines = 1
	start := len(content) - len(rest)
	for len(rest) > 0 {
		var line []byte
		var more bool
		line, rest, more = cutLine(rest)
		lines++
		switch string(bytes.TrimRight(line, " \t\r")) {
		case "---", "...":
			end := len(content) - len(rest) - len(line)
			if more {
				end--
			}
			return bytes.TrimRight(content[start:end], "\r\n"), rest, lines
		}
		if !more {
			break
		}
	}
	return nil, content, 0
}

// cutLine splits off the first line, reporting whether a newline ended it.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// decodeFrontmatter decodes a YAML mapping. Empty input yields nil.
func decodeFrontmatter(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	return out, nil
}
