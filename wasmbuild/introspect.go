package wasmbuild

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Introspect loads a compiled module with wazero and builds its export
// Manifest. wazero's api.ValueType enumeration is already the
// numeric-only Wasm core types this package cares about, so no separate
// type-mapping layer is needed — valueType below only renames its four
// constants into this package's own ValueType.
func Introspect(ctx context.Context, wasmBytes []byte) (*Manifest, error) {
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("wasmbuild: compiling module for introspection: %w", err)
	}
	defer compiled.Close(ctx)

	exports := compiled.ExportedFunctions()
	manifest := &Manifest{Exports: make([]Symbol, 0, len(exports))}
	for name, def := range exports {
		manifest.Exports = append(manifest.Exports, Symbol{
			Name:    name,
			Params:  valueTypes(def.ParamTypes()),
			Results: valueTypes(def.ResultTypes()),
		})
	}
	return manifest, nil
}

func valueTypes(ts []api.ValueType) []ValueType {
	out := make([]ValueType, len(ts))
	for i, t := range ts {
		out[i] = valueType(t)
	}
	return out
}

func valueType(t api.ValueType) ValueType {
	switch t {
	case api.ValueTypeI32:
		return I32
	case api.ValueTypeI64:
		return I64
	case api.ValueTypeF32:
		return F32
	case api.ValueTypeF64:
		return F64
	default:
		return I32
	}
}
