package compile

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Metadata is the frontmatter of a compiled document, read back out.
type Metadata struct {
	Name                   string
	Description            string
	AllowedTools           string
	DisableModelInvocation bool
	UserInvocable          bool
}

// ParseDocument reads the frontmatter and body out of a compiled SKILL.md.
// Rendering a record and parsing the result must round-trip the metadata;
// the inspect command also uses this on documents produced elsewhere.
func ParseDocument(content string) (*Metadata, string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		return nil, "", errors.Wrap(err, "failed to parse document")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, "", errors.New("document has no frontmatter")
	}

	m := &Metadata{}
	m.Name, _ = metaData["name"].(string)
	m.Description, _ = metaData["description"].(string)
	m.AllowedTools, _ = metaData["allowed-tools"].(string)
	m.DisableModelInvocation, _ = metaData["disable-model-invocation"].(bool)
	m.UserInvocable, _ = metaData["user-invocable"].(bool)

	if m.Name == "" {
		return nil, "", errors.New("frontmatter is missing name")
	}
	if m.Description == "" {
		return nil, "", errors.New("frontmatter is missing description")
	}

	return m, documentBody(content), nil
}

// documentBody strips the frontmatter block and returns the Markdown body.
func documentBody(content string) string {
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return content
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return content
	}
	return strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
}
