// Package wiki synchronizes campaign state with a directory of
// frontmatter-headed markdown files, one per NPC and one per faction.
package wiki

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Frontmatter is a parsed wiki file: the key/value header block and the
// free-text body below it.
type Frontmatter struct {
	Fields map[string]string
	Body   string
}

// Parse splits a wiki file into its delimited header and body. The header
// is YAML key/value lines; nested structures are not supported. A file
// without a leading delimiter has no recognized header.
func Parse(data []byte) (*Frontmatter, error) {
	text := string(data)
	if !strings.HasPrefix(text, delimiter+"\n") && text != delimiter {
		return &Frontmatter{Fields: map[string]string{}, Body: text}, nil
	}
	rest := strings.TrimPrefix(text, delimiter+"\n")
	// The leading newline lets an empty header block still match the
	// closing delimiter.
	header, body, found := strings.Cut("\n"+rest, "\n"+delimiter)
	if !found {
		return nil, fmt.Errorf("unterminated frontmatter header")
	}
	// Drop the newline closing the delimiter line, then one optional
	// blank separator line.
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return nil, fmt.Errorf("parse frontmatter header: %w", err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = fmt.Sprintf("%v", v)
	}
	return &Frontmatter{Fields: fields, Body: body}, nil
}

// Render writes a frontmatter file: header keys in the given order, then
// the body. Keys with empty values are omitted.
func Render(keys []string, fields map[string]string, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	for _, k := range keys {
		if v := fields[k]; v != "" {
			fmt.Fprintf(&buf, "%s: %s\n", k, v)
		}
	}
	buf.WriteString(delimiter + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes()
}
