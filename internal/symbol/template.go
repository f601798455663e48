// Package symbol renders exported symbol names from templates and decides
// which functions are renamed via include/exclude pattern rules.
package symbol

import (
	"fmt"
	"strings"

	"github.com/symforge/symforge/internal/constants"
)

// Placeholders a template may reference.
var knownPlaceholders = map[string]struct{}{
	"prefix": {},
	"sep":    {},
	"module": {},
	"name":   {},
	"suffix": {},
}

// MalformedTemplateError reports an unknown placeholder or an unparseable
// template string. It is raised at resolution time so failures surface
// before any build output is produced.
type MalformedTemplateError struct {
	Template string
	Detail   string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed symbol template %q: %s", e.Template, e.Detail)
}

// Template renders exported symbol names. The zero value is not usable;
// construct with NewTemplate so defaults apply.
type Template struct {
	// Format is the placeholder template string.
	Format string

	// Sep substitutes {sep}.
	Sep string

	// Suffix substitutes {suffix}; empty when unset.
	Suffix string
}

// NewTemplate builds a template, applying the default format and separator
// where unset.
func NewTemplate(format, sep, suffix string) Template {
	if format == "" {
		format = constants.DefaultTemplate
	}
	if sep == "" {
		sep = constants.DefaultSeparator
	}
	return Template{Format: format, Sep: sep, Suffix: suffix}
}

// Validate checks every placeholder in the template. Unknown placeholders
// and unbalanced braces are configuration errors, not render-time blanks.
func (t Template) Validate() error {
	depth := 0
	start := 0
	for i, r := range t.Format {
		switch r {
		case '{':
			if depth != 0 {
				return &MalformedTemplateError{Template: t.Format, Detail: fmt.Sprintf("nested '{' at offset %d", i)}
			}
			depth = 1
			start = i + 1
		case '}':
			if depth == 0 {
				return &MalformedTemplateError{Template: t.Format, Detail: fmt.Sprintf("unmatched '}' at offset %d", i)}
			}
			depth = 0
			name := t.Format[start:i]
			if _, ok := knownPlaceholders[name]; !ok {
				return &MalformedTemplateError{Template: t.Format, Detail: fmt.Sprintf("unknown placeholder {%s}", name)}
			}
		}
	}
	if depth != 0 {
		return &MalformedTemplateError{Template: t.Format, Detail: "unterminated '{'"}
	}
	return nil
}

// Render substitutes all placeholders for one function.
// module is the innermost enclosing module path, flattened by the caller.
func (t Template) Render(prefix, module, name string) string {
	r := strings.NewReplacer(
		"{prefix}", prefix,
		"{sep}", t.Sep,
		"{module}", module,
		"{name}", name,
		"{suffix}", t.Suffix,
	)
	return r.Replace(t.Format)
}

// Sanitize maps a raw prefix value onto the characters a linker-visible
// symbol may carry: anything outside [A-Za-z0-9_] becomes '_', an empty
// value becomes "_", and a leading digit gets an underscore prepended.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}
