//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// OtoPlayer.Read reinterprets []float32 frames as little-endian bytes.
var _ = "Intuition Ambient requires a little-endian architecture" + 1
