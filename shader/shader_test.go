package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectDefines(t *testing.T) {
	defs := []define{{"MAX_SPHERES", "4"}, {"BOUNCES", "2"}}
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "after version",
			source: "#version 410 core\nvoid main() {}\n",
			want:   "#version 410 core\n#define MAX_SPHERES 4\n#define BOUNCES 2\nvoid main() {}\n",
		},
		{
			name:   "leading blank lines",
			source: "\n\n#version 410 core\nvoid main() {}\n",
			want:   "\n\n#version 410 core\n#define MAX_SPHERES 4\n#define BOUNCES 2\nvoid main() {}\n",
		},
		{
			name:   "no version",
			source: "void main() {}\n",
			want:   "#define MAX_SPHERES 4\n#define BOUNCES 2\nvoid main() {}\n",
		},
		{
			name:   "version only",
			source: "#version 410 core",
			want:   "#version 410 core\n#define MAX_SPHERES 4\n#define BOUNCES 2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, injectDefines(tt.source, defs))
		})
	}

	assert.Equal(t, "x", injectDefines("x", nil))
}
