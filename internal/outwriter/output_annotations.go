package outwriter

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/cigate/schema"
)

// FormatAnnotation renders a workflow command such as "::warning file=a.xml::msg".
// Property keys are emitted in sorted order.
func FormatAnnotation(level schema.AnnotationLevel, props map[string]string, message string) string {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(string(level))
	if len(props) > 0 {
		b.WriteByte(' ')
		for i, key := range slices.Sorted(maps.Keys(props)) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(escapeProperty(props[key]))
		}
	}
	b.WriteString("::")
	b.WriteString(escapeData(message))
	return b.String()
}

// FormatGateFailure renders the message for a failed gate, listing every violated condition.
func FormatGateFailure(gate schema.GateResult) string {
	if len(gate.Reasons) == 0 {
		return "Gate failed"
	}
	return fmt.Sprintf("Gate failed (%s)", schema.JoinReasons(gate.Reasons))
}

func writeAnnotation(w io.Writer, level schema.AnnotationLevel, props map[string]string, message string) {
	_, _ = fmt.Fprintln(w, FormatAnnotation(level, props, message))
}

// escapeData escapes the message part of a workflow command.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// escapeProperty escapes a property value of a workflow command.
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
