// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"unsafe"
)

// humanSize renders count elements of elemSize bytes each as a short
// human-readable byte count, the same reporting style Stats/cache summaries
// use for their "Allocated" and per-cache lines.
func humanSize(count int, elemSize uintptr) string {
	bytes := float64(count) * float64(elemSize)
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	i := 0
	for bytes >= 1024 && i < len(units)-1 {
		bytes /= 1024
		i++
	}
	return fmt.Sprintf("%.3g %s", bytes, units[i])
}

// arenaFootprint reports the node arena's approximate memory footprint.
func (m *Manager) arenaFootprint() string {
	return humanSize(len(m.arena.nodes), unsafe.Sizeof(node{}))
}
