package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew tests pool construction and validation
func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		descriptors []string
		expectErr   bool
		expectLen   int
	}{
		{
			name:        "Single descriptor",
			descriptors: []string{"https://a.example"},
			expectLen:   1,
		},
		{
			name:        "Multiple descriptors",
			descriptors: []string{"key1", "key2", "key3"},
			expectLen:   3,
		},
		{
			name:        "Whitespace is trimmed",
			descriptors: []string{"  key1 ", "key2"},
			expectLen:   2,
		},
		{
			name:        "Empty slice",
			descriptors: []string{},
			expectErr:   true,
		},
		{
			name:        "Nil slice",
			descriptors: nil,
			expectErr:   true,
		},
		{
			name:        "Blank descriptor",
			descriptors: []string{"key1", "   "},
			expectErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New("test", tt.descriptors)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectLen, p.Len())
			assert.Equal(t, "test", p.Name())
		})
	}
}

func TestNew_TrimsDescriptors(t *testing.T) {
	p, err := New("test", []string{"  key1 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"key1"}, p.Descriptors())
}

func TestMustNew_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { MustNew("empty", nil) })
}

// TestDescriptors_ReturnsCopy verifies callers cannot mutate the pool
func TestDescriptors_ReturnsCopy(t *testing.T) {
	p := MustNew("test", []string{"a", "b"})

	got := p.Descriptors()
	got[0] = "modified"

	assert.Equal(t, []string{"a", "b"}, p.Descriptors())
}

func TestAll_PriorityOrder(t *testing.T) {
	p := MustNew("test", []string{"a", "b", "c"})

	var seen []string
	var indexes []int
	for i, d := range p.All() {
		indexes = append(indexes, i)
		seen = append(seen, d)
	}

	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Equal(t, []int{0, 1, 2}, indexes)
}

func TestAll_RestartsFromFirst(t *testing.T) {
	p := MustNew("test", []string{"a", "b", "c"})

	for _, d := range p.All() {
		if d == "b" {
			break
		}
	}

	var first string
	for _, d := range p.All() {
		first = d
		break
	}
	assert.Equal(t, "a", first)
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Descriptors())
	assert.Equal(t, -1, p.IndexOf("a"))

	count := 0
	for range p.All() {
		count++
	}
	assert.Zero(t, count)
}

func TestLabelAndIndexOf(t *testing.T) {
	p := MustNew("soundcloud", []string{"id-a", "id-b"})

	assert.Equal(t, "soundcloud#1", p.Label(1))
	assert.Equal(t, 1, p.IndexOf("id-b"))
	assert.Equal(t, -1, p.IndexOf("missing"))
}
