package core

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures lists the SIMD extensions the vector kernels can use on this machine.
func CPUFeatures() string {
	var feats []string
	if cpu.X86.HasSSE41 {
		feats = append(feats, "sse4.1")
	}
	if cpu.X86.HasAVX {
		feats = append(feats, "avx")
	}
	if cpu.X86.HasAVX2 {
		feats = append(feats, "avx2")
	}
	if cpu.X86.HasFMA {
		feats = append(feats, "fma")
	}
	if cpu.X86.HasAVX512F {
		feats = append(feats, "avx512f")
	}
	if cpu.ARM64.HasASIMD {
		feats = append(feats, "asimd")
	}
	if len(feats) == 0 {
		return "generic"
	}
	return strings.Join(feats, ",")
}
