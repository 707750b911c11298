package wasmbuild

import (
	"context"
	"fmt"
)

// Lang is one of the foreign source languages a `.decor` file may embed
// a block of.
type Lang string

const (
	LangC      Lang = "c"
	LangCPP    Lang = "cpp"
	LangRust   Lang = "rust"
	LangGo     Lang = "go"
	LangTinyGo Lang = "tinygo"
	LangWAT    Lang = "wat"
	LangZig    Lang = "zig"
)

// Request is the input to one Driver.Build call: one foreign-language
// block's source text, and the directory a driver may use for scratch
// files.
type Request struct {
	Lang    Lang
	Source  string
	WorkDir string
}

// Result is a driver's output: the compiled module's bytes and the
// manifest of its exported symbols.
type Result struct {
	Wasm     []byte
	Manifest *Manifest
}

// Driver is the contract every foreign-language build toolchain
// implements: consume source text, produce a wasm byte stream. Each
// language's driver wraps os/exec to invoke its external toolchain; no
// Go library in this project's dependency family wraps arbitrary
// third-party native toolchains, so this boundary is necessarily
// os/exec.
type Driver interface {
	Build(ctx context.Context, req Request) (*Result, error)
}

// driverFor returns the concrete driver for a foreign language.
func driverFor(lang Lang) (Driver, error) {
	switch lang {
	case LangC:
		return &execDriver{lang: lang, tool: "emcc", toolCandidates: []string{"emcc"}, args: emccArgs}, nil
	case LangCPP:
		return &execDriver{lang: lang, tool: "emcc", toolCandidates: []string{"emcc", "em++"}, args: emccArgs}, nil
	case LangRust:
		return &execDriver{lang: lang, tool: "cargo", toolCandidates: []string{"cargo"}, args: cargoArgs, postBuild: copyCargoArtifact}, nil
	case LangGo:
		return &execDriver{lang: lang, tool: "go", toolCandidates: []string{"go"}, args: goArgs, env: []string{"GOOS=wasip1", "GOARCH=wasm"}}, nil
	case LangTinyGo:
		return &execDriver{lang: lang, tool: "tinygo", toolCandidates: []string{"tinygo"}, args: tinygoArgs}, nil
	case LangWAT:
		return &execDriver{lang: lang, tool: "wat2wasm", toolCandidates: []string{"wat2wasm"}, args: watArgs}, nil
	case LangZig:
		return &execDriver{lang: lang, tool: "zig", toolCandidates: []string{"zig"}, args: zigArgs}, nil
	default:
		return nil, fmt.Errorf("wasmbuild: no driver for language %q", lang)
	}
}
