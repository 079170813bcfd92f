package bagit

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Tag describes a tag parsed from a BagIt file such as bag-info.txt.
type Tag struct {
	TagFile string `json:"tagFile"`
	TagName string `json:"tagName"`
	Value   string `json:"value"`
}

func NewTag(tagFile, tagName, value string) *Tag {
	return &Tag{
		TagFile: tagFile,
		TagName: tagName,
		Value:   value,
	}
}

// ParseTagFileContents parses "Name: Value" lines from reader. Lines
// that begin with a space or tab continue the previous tag's value.
// Blank lines are ignored. A line with no colon is an error.
func ParseTagFileContents(reader io.Reader, tagFile string) ([]*Tag, error) {
	tags := make([]*Tag, 0)
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(tags) == 0 {
				return nil, fmt.Errorf("%s line %d: continuation line with no preceding tag", tagFile, lineNumber)
			}
			last := tags[len(tags)-1]
			last.Value = strings.TrimSpace(last.Value + " " + strings.TrimSpace(line))
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s line %d: expected 'Name: Value', got '%s'", tagFile, lineNumber, line)
		}
		tags = append(tags, NewTag(tagFile, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
