//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// le_check.go - Intuition Ambient requires a little-endian architecture.
//
// The oto backend hands float32 frames to the device as raw bytes in
// FormatFloat32LE. be_unsupported.go fails the build everywhere else.

package main
