package ids

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNewHasPrefix(t *testing.T) {
	id := New()
	assert.True(t, strings.HasPrefix(id, Prefix))
	assert.Greater(t, len(id), len(Prefix))
}

func TestNewIsUnique(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	properties.Property("no two generated ids are equal", prop.ForAll(
		func(n int) bool {
			seen := make(map[string]struct{}, n)
			for i := 0; i < n; i++ {
				id := New()
				if _, dup := seen[id]; dup {
					return false
				}
				seen[id] = struct{}{}
			}
			return true
		},
		gen.IntRange(1, 5000),
	))
	properties.TestingRun(t)
}

func TestSequence(t *testing.T) {
	next := Sequence("n")
	assert.Equal(t, "n1", next())
	assert.Equal(t, "n2", next())

	other := Sequence("n")
	assert.Equal(t, "n1", other(), "sequences are independent")
}
