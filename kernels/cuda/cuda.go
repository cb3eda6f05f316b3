// Package cuda registers the standard metadata kernels on the CUDA dispatch
// key. Importing the package (possibly blank) wires them into the default
// dispatcher:
//
//	import _ "github.com/godispatch/godispatch/kernels/cuda"
package cuda

import (
	"github.com/godispatch/godispatch/dispatch"
	"github.com/godispatch/godispatch/kernels"
	"github.com/godispatch/godispatch/types/keys"
)

func init() {
	Register(dispatch.Default())
}

// Register installs the standard CUDA kernels on the given dispatcher.
func Register(d *dispatch.Dispatcher) {
	kernels.RegisterStandardOps(d, keys.KeyCUDA)
}
