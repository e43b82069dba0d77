package mclang

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/monkin/mclang/ascii"
)

// Dump renders root's compiled kernel source, one treePrinter line per
// source line prefixed with its 1-based line number — a debug view of
// what Builder.Build would hand the driver, without needing a real
// device or an AST walker over every node kind.
func Dump(root Expression) string {
	return dumpLines(root, func(line string) string { return line })
}

// HighlightDump is Dump with syntax highlighting applied via theme:
// numeric literals, the qualifier/type/control-flow keyword set, and
// identifiers ending in a digit run (mclang's own `paramName`
// convention) each get their own color.
func HighlightDump(root Expression, theme ascii.Theme) string {
	return dumpLines(root, func(line string) string { return highlightLine(line, theme) })
}

func dumpLines(root Expression, render func(string) string) string {
	src := NewBuilder("  ").Build(root)
	lines := strings.Split(strings.TrimRight(src, "\n"), "\n")

	tp := newTreePrinter(func(input string, lineNo int) string {
		return ascii.Color(ascii.Gray245, "%4d", lineNo) + "  " + input
	})
	for i, line := range lines {
		tp.writel(tp.format(render(line), i+1))
	}
	return tp.String()
}

var (
	keywordRE = regexp.MustCompile(`\b(kernel|void|__global|__local|__constant|read_only|write_only|image2d_t|sampler_t|for|if|else|return)\b`)
	numberRE  = regexp.MustCompile(`\b0x[0-9a-f]+(?:u|l|ul)?\b|\b[0-9]+\.[0-9]+e[+-][0-9]+f\b`)
	paramRE   = regexp.MustCompile(`\b[a-z]+[0-9]+\b`)
)

// highlightLine colors one already-rendered source line: keywords,
// numeric literals, and mclang's own `<prefix><id>` parameter names
// each get theme's corresponding color. Spans are found and colored
// independently and may overlap only at boundaries, which is enough
// for a best-effort debug view — this is not a full tokenizer.
func highlightLine(line string, theme ascii.Theme) string {
	line = keywordRE.ReplaceAllStringFunc(line, func(m string) string {
		return ascii.Color(theme.Operator, "%s", m)
	})
	line = numberRE.ReplaceAllStringFunc(line, func(m string) string {
		return ascii.Color(theme.Literal, "%s", m)
	})
	line = paramRE.ReplaceAllStringFunc(line, func(m string) string {
		if _, err := strconv.Atoi(m); err == nil {
			return m
		}
		return ascii.Color(theme.Operand, "%s", m)
	})
	return line
}
