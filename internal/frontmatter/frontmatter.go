// Package frontmatter extracts YAML metadata blocks from problem source files.
//
// Two delimiter syntaxes exist: Markdown problems open and close the block
// with a line of three dashes at the very start of the file; LaTeX problems
// carry the block as a maximal leading run of `%%` comment lines.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Policy controls how unrecognized frontmatter keys are treated.
type Policy string

const (
	// PolicyIgnore drops unrecognized keys.
	PolicyIgnore Policy = "ignore"
	// PolicyPreserve carries unrecognized keys verbatim in Metadata.Extra.
	PolicyPreserve Policy = "preserve"
	// PolicyReject treats unrecognized keys as a metadata error.
	PolicyReject Policy = "reject"
)

// Metadata is the recognized frontmatter mapping of a problem.
type Metadata struct {
	Tags   []string
	Source string
	Extra  map[string]any
}

// HasTags reports whether the problem declared at least one tag.
func (m Metadata) HasTags() bool { return len(m.Tags) > 0 }

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
// The document's newline style (LF or CRLF) is detected from its first line
// so files saved with either convention split the same way.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input unchanged.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	frontmatterStart := len(open)
	if bytes.HasPrefix(content[frontmatterStart:], open) {
		bodyStart := frontmatterStart + len(open)
		return []byte{}, content[bodyStart:], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// A closing line at EOF without a trailing newline still counts.
		if tail := content[frontmatterStart:]; bytes.HasSuffix(tail, []byte(nl+"---")) {
			return tail[:len(tail)-len("---")], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, nil
}

// detectNewline reports the newline sequence of the document's first line.
func detectNewline(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				return "\r\n"
			}
			return "\n"
		}
	}
	return "\n"
}

// SplitComments separates `%%` comment frontmatter from a LaTeX body.
//
// The maximal leading run of lines beginning with `%%` forms the block; each
// line has the marker and at most one following space stripped, preserving any
// further indentation so nested YAML survives. With zero qualifying lines, had
// is false and body is the full input unchanged.
func SplitComments(content []byte) (frontmatter []byte, body []byte, had bool) {
	marker := []byte("%%")
	offset := 0
	var block bytes.Buffer

	for offset < len(content) {
		rest := content[offset:]
		if !bytes.HasPrefix(rest, marker) {
			break
		}

		lineEnd := bytes.IndexByte(rest, '\n')
		var line []byte
		if lineEnd < 0 {
			line = rest
			offset = len(content)
		} else {
			line = rest[:lineEnd]
			offset += lineEnd + 1
		}

		stripped := line[len(marker):]
		if len(stripped) > 0 && stripped[0] == ' ' {
			stripped = stripped[1:]
		}
		block.Write(stripped)
		block.WriteByte('\n')
	}

	if block.Len() == 0 {
		return nil, content, false
	}
	return block.Bytes(), content[offset:], true
}

// Parse decodes a raw frontmatter block into validated Metadata.
//
// The block must be a YAML mapping; `tags` must be a sequence of strings and
// `source` a string. Unrecognized keys are handled per policy.
func Parse(block []byte, policy Policy) (Metadata, error) {
	meta := Metadata{}
	if len(bytes.TrimSpace(block)) == 0 {
		return meta, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return meta, fmt.Errorf("frontmatter is not valid YAML: %w", err)
	}
	if fields == nil {
		return meta, nil
	}

	for key, value := range fields {
		switch key {
		case "tags":
			tags, err := stringSlice(value)
			if err != nil {
				return Metadata{}, fmt.Errorf("frontmatter key %q: %w", key, err)
			}
			meta.Tags = tags
		case "source":
			s, ok := value.(string)
			if !ok {
				return Metadata{}, fmt.Errorf("frontmatter key %q must be a string, got %T", key, value)
			}
			meta.Source = s
		default:
			switch policy {
			case PolicyReject:
				return Metadata{}, fmt.Errorf("unrecognized frontmatter key %q", key)
			case PolicyPreserve:
				if meta.Extra == nil {
					meta.Extra = map[string]any{}
				}
				meta.Extra[key] = value
			}
		}
	}

	return meta, nil
}

func stringSlice(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("must be a sequence of strings, got %T", value)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("must be a sequence of strings, element is %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
