/*
Package tests provides helpers to test NFMe contracts on a private chain.
*/
package tests

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Source directories of the contracts relative to the module root.
const (
	IdentityDir = "contracts/identity"
	IssuerDir   = "contracts/issuer"
	FactoryDir  = "contracts/factory"
	TargetDir   = "internal/testcontracts/target"
	ReminterDir = "internal/testcontracts/reminter"
)

// NewExecutor returns executor of a new single node chain.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// Compile compiles the contract from the directory relative to the module
// root. Compiled contracts are cached, so their hashes are computed for the
// committee sender.
func Compile(t testing.TB, e *neotest.Executor, dir string) *neotest.Contract {
	p := sourcePath(dir)
	return neotest.CompileFile(t, e.CommitteeHash, p, filepath.Join(p, "config.yml"))
}

// IteratorToArray reads all iterator values.
func IteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func sourcePath(dir string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", dir)
}
