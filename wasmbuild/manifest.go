// Package wasmbuild implements the Decorous wasm orchestrator: one Driver
// per foreign source language, wazero-based introspection of the
// compiled module's exports, an optional wasm-opt pass, and a build cache
// keyed by source hash.
package wasmbuild

// ValueType is one of the four numeric Wasm core types a foreign
// function signature may use.
type ValueType int

const (
	I32 ValueType = iota
	I64
	F32
	F64
)

func (v ValueType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// Symbol is one exported function of a compiled module.
type Symbol struct {
	Name    string
	Params  []ValueType
	Results []ValueType
}

// Manifest is the set of symbols a compiled module exports.
type Manifest struct {
	Exports []Symbol
}
