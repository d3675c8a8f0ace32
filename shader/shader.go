package shader

import (
	"fmt"
	"strings"
)

type define struct {
	name  string
	value string
}

// injectDefines inserts one #define line per entry directly after the
// #version directive (or at the top when there is none). GLSL requires
// #version to be the first statement, so nothing may precede it.
func injectDefines(source string, defines []define) string {
	if len(defines) == 0 {
		return source
	}
	var block strings.Builder
	for _, d := range defines {
		fmt.Fprintf(&block, "#define %s %s\n", d.name, d.value)
	}

	trimmed := strings.TrimLeft(source, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return block.String() + source
	}
	offset := len(source) - len(trimmed)
	end := strings.IndexByte(trimmed, '\n')
	if end < 0 {
		return source + "\n" + block.String()
	}
	split := offset + end + 1
	return source[:split] + block.String() + source[split:]
}
