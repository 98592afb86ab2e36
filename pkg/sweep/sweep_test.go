package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/pkg/format"
	"github.com/leapstack-labs/pyshrink/pkg/pysrc"
)

func TestModule(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		removed int
	}{
		{
			name:    "unused plain import",
			src:     "import os\nimport sys\nprint(sys.argv)\n",
			want:    "import sys\nprint(sys.argv)",
			removed: 1,
		},
		{
			name:    "dotted import binds first component",
			src:     "import os.path\nos.path.join('a')\n",
			want:    "import os.path\nos.path.join('a')",
			removed: 0,
		},
		{
			name:    "partial from import",
			src:     "from a import b, c as d\nd()\n",
			want:    "from a import c as d\nd()",
			removed: 1,
		},
		{
			name:    "future and star imports are exempt",
			src:     "from __future__ import annotations\nfrom m import *\n",
			want:    "from __future__ import annotations\nfrom m import*",
			removed: 0,
		},
		{
			name:    "emptied nested body gets pass",
			src:     "def f():\n    import json\n",
			want:    "def f():pass",
			removed: 1,
		},
		{
			name:    "use before import keeps it alive",
			src:     "def f():\n    return np.zeros(1)\nimport numpy as np\n",
			want:    "def f():return np.zeros(1)\nimport numpy as np",
			removed: 0,
		},
		{
			name:    "string annotation keeps import",
			src:     "from typing import Optional\ndef f(x: 'Optional[int]'):\n    pass\n",
			want:    "from typing import Optional\ndef f(x:'Optional[int]'):pass",
			removed: 0,
		},
		{
			name:    "names listed in __all__ are kept",
			src:     "from .impl import thing\n__all__ = ['thing']\n",
			want:    "from .impl import thing\n__all__=['thing']",
			removed: 0,
		},
		{
			name:    "names added to __all__ later are kept",
			src:     "from _impl import a, b, c, unused\n__all__ = []\n__all__.append('a')\n__all__.extend(['b'])\n__all__.insert(0, 'c')\n",
			want:    "from _impl import a,b,c\n__all__=[]\n__all__.append('a')\n__all__.extend(['b'])\n__all__.insert(0,'c')",
			removed: 1,
		},
		{
			name:    "emptied try body",
			src:     "try:\n    import ujson\nexcept ImportError:\n    pass\n",
			want:    "try:pass\nexcept ImportError:pass",
			removed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := pysrc.ParseString(tt.src)
			require.NoError(t, err)

			removed := Module(mod)

			out, err := format.Format(mod)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.removed, removed)
		})
	}
}

func TestUsage(t *testing.T) {
	mod, err := pysrc.ParseString("x = a.b\ny: 'List[C]' = f(d=e)\n")
	require.NoError(t, err)

	used := Usage(mod)
	for _, name := range []string{"x", "a", "y", "List", "C", "f", "e"} {
		assert.Contains(t, used, name)
	}
	assert.NotContains(t, used, "b")
	assert.NotContains(t, used, "d")
}
