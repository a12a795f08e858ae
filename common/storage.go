package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetHashList returns deserialized list of accounts stored by the key or
// an empty list if there is nothing.
func GetHashList(ctx storage.Context, key any) []interop.Hash160 {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]interop.Hash160)
	}

	return []interop.Hash160{}
}

// GetStringList returns deserialized list of strings stored by the key or
// an empty list if there is nothing.
func GetStringList(ctx storage.Context, key any) []string {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]string)
	}

	return []string{}
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetInt returns integer stored by the key or 0 if there is nothing.
func GetInt(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data == nil {
		return 0
	}
	return data.(int)
}

// ToHash160 returns the value as an account of ByteString VM type. Type
// assertion to interop.Hash160 produces Buffer instead.
func ToHash160(v any) interop.Hash160 {
	return interop.Hash160(v.(string))
}

// ToPublicKey returns the value as a public key of ByteString VM type.
func ToPublicKey(v any) interop.PublicKey {
	return interop.PublicKey(v.(string))
}
