package target

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Call struct {
	From   interop.Hash160
	Amount int
	Data   any
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	put(Call{From: from, Amount: amount, Data: data})

	if data == nil {
		return
	}
	args := data.([]any)
	if len(args) > 0 && args[0].(string) == "reenter" {
		reenter(from)
	}
}

func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	put(Call{From: from, Amount: amount, Data: tokenID})
}

func Ping(arg any) any {
	put(Call{From: runtime.GetCallingScriptHash(), Data: arg})
	return arg
}

func Echo(arg any) any {
	return arg
}

func Reenter(identity interop.Hash160) {
	reenter(identity)
}

func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), "key")
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}

func reenter(identity interop.Hash160) {
	contract.Call(identity, "execute", contract.All,
		0, runtime.GetExecutingScriptHash(), 0, "echo", []any{1})
}

func put(c Call) {
	storage.Put(storage.GetContext(), "key", std.Serialize(c))
}
