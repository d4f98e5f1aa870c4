package ops

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/meetcorpus/internal/errors"
)

// RenderHTML renders described records as an HTML fragment: one heading per record
// followed by its description paragraph.
func RenderHTML(items []DescribeOutput) (string, error) {
	var md strings.Builder
	for i, item := range items {
		if i > 0 {
			md.WriteString("\n")
		}
		fmt.Fprintf(&md, "### Meeting %d\n\n%s\n", item.ID, escapeMarkdown(item.Description))
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return "", errors.NewInternal(fmt.Errorf("render description: %w", err))
	}
	return buf.String(), nil
}

// markdownEscaper backslash-escapes characters that would otherwise start inline markup.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
