package keys

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStrings(t *testing.T) {
	want := map[Key]string{
		KeyCPU:       "CPU",
		KeyCUDA:      "CUDA",
		KeyAutograd:  "Autograd",
		KeyTracing:   "Tracing",
		KeyProfiling: "Profiling",
		KeyUndefined: "Undefined",
		KeyCatchAll:  "CatchAll",
	}
	for k, name := range want {
		assert.Equal(t, name, k.String())
	}

	// Round-trip through the generated parser.
	for k, name := range want {
		parsed, err := KeyString(name)
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestKeyPriorities(t *testing.T) {
	assert.Equal(t, uint8(0), KeyAutograd.Priority())
	assert.Equal(t, uint8(1), KeyTracing.Priority())
	assert.Equal(t, uint8(2), KeyProfiling.Priority())
	assert.Equal(t, uint8(10), KeyCPU.Priority())
	assert.Equal(t, uint8(11), KeyCUDA.Priority())
	assert.Equal(t, uint8(100), KeyCatchAll.Priority())
	assert.Equal(t, uint8(255), KeyUndefined.Priority())

	// Priorities are unique, so priority order is total.
	seen := make(map[uint8]Key)
	for k := KeyCPU; k < KeyNumKeys; k++ {
		p := k.Priority()
		_, dup := seen[p]
		require.Falsef(t, dup, "keys %s and %s share priority %d", seen[p], k, p)
		seen[p] = k
	}
}

func TestKeyClassification(t *testing.T) {
	for k := KeyCPU; k < KeyNumKeys; k++ {
		backend := k == KeyCPU || k == KeyCUDA
		functionality := k == KeyAutograd || k == KeyTracing || k == KeyProfiling
		assert.Equal(t, backend, k.IsBackend(), "key %s", k)
		assert.Equal(t, functionality, k.IsFunctionality(), "key %s", k)
	}
}

func TestInvalidKeyPanics(t *testing.T) {
	err := exceptions.TryCatch[error](func() { KeyNumKeys.Priority() })
	require.Error(t, err)
	err = exceptions.TryCatch[error](func() {
		var s Set
		s.Add(Key(200))
	})
	require.Error(t, err)
}
