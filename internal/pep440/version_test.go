package pep440

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.0", "1.0"},
		{"1.0.0", "1.0.0"},
		{"0.1", "0.1"},
		{"2.0.0rc1", "2.0.0rc1"},
		{"2.0.0-rc.1", "2.0.0rc1"},
		{"1.0.0a1", "1.0.0a1"},
		{"1.0.0alpha2", "1.0.0a2"},
		{"1.0.0b3", "1.0.0b3"},
		{"1.0.0.post1", "1.0.0.post1"},
		{"1.0.0post1", "1.0.0.post1"},
		{"1.0.0.rev2", "1.0.0.post2"},
		{"1.2.3+build5", "1.2.3+build5"},
		{"v1.2.3", "1.2.3"},
		{" 1.4 ", "1.4"},
		{"10.20.30.40", "10.20.30.40"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "abc", ".1.0", "1..0", "not-a-version", "==1.0"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0.0", 0},
		{"1.0", "1.0.0.0", 0},
		{"1.0", "2.0", -1},
		{"1.10", "1.2", 1},
		{"1.0.0a1", "1.0.0", -1},
		{"1.0.0a1", "1.0.0b1", -1},
		{"1.0.0b1", "1.0.0rc1", -1},
		{"1.0.0rc1", "1.0.0rc2", -1},
		{"1.0.0", "1.0.0.post1", -1},
		{"1.0.0.post1", "1.0.0.post2", -1},
		{"1.0.0a1", "1.0.0.post1", -1},
		{"1.0.0", "1.0.0+build1", -1},
		{"1.0.0rc1", "1.0.1a1", -1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_vs_%s", tt.a, tt.b), func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, Compare(a, b))
			assert.Equal(t, -tt.want, Compare(b, a))
		})
	}
}

func TestAdjacency(t *testing.T) {
	assert.Equal(t, "1.5", MustParse("1.4.2").Truncate(2).Bump().String())
	assert.Equal(t, "2", MustParse("1.4").Truncate(1).Bump().String())
	assert.Equal(t, "1.5", MustParse("1.4").Bump().String())
	assert.Equal(t, "1.4", MustParse("1.4.2rc1").Truncate(2).String())
}

// genVersion draws a structurally valid version string.
func genVersion(t *rapid.T) string {
	var sb strings.Builder
	segments := rapid.IntRange(1, 4).Draw(t, "segments")
	for i := 0; i < segments; i++ {
		if i > 0 {
			sb.WriteByte('.')
		}
		fmt.Fprintf(&sb, "%d", rapid.IntRange(0, 20).Draw(t, "segment"))
	}
	switch rapid.IntRange(0, 3).Draw(t, "pre") {
	case 1:
		fmt.Fprintf(&sb, "a%d", rapid.IntRange(0, 5).Draw(t, "preNum"))
	case 2:
		fmt.Fprintf(&sb, "b%d", rapid.IntRange(0, 5).Draw(t, "preNum"))
	case 3:
		fmt.Fprintf(&sb, "rc%d", rapid.IntRange(0, 5).Draw(t, "preNum"))
	}
	if rapid.Bool().Draw(t, "post") {
		fmt.Fprintf(&sb, ".post%d", rapid.IntRange(0, 5).Draw(t, "postNum"))
	}
	return sb.String()
}

func TestCompareIsTotalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := MustParse(genVersion(t))
		b := MustParse(genVersion(t))
		c := MustParse(genVersion(t))

		if Compare(a, a) != 0 {
			t.Fatalf("Compare(%v, %v) != 0", a, a)
		}
		if Compare(a, b) != -Compare(b, a) {
			t.Fatalf("Compare not antisymmetric for %v, %v", a, b)
		}
		if Compare(a, b) <= 0 && Compare(b, c) <= 0 && Compare(a, c) > 0 {
			t.Fatalf("Compare not transitive for %v, %v, %v", a, b, c)
		}
	})
}

func TestStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := MustParse(genVersion(t))
		reparsed, err := Parse(v.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", v.String(), err)
		}
		if Compare(v, reparsed) != 0 {
			t.Fatalf("round trip changed ordering: %v vs %v", v, reparsed)
		}
	})
}
