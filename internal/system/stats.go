package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats — снимок ресурсов машины и текущего процесса для отчета о
// производительности.
type HostStats struct {
	LogicalCPUs   int
	TotalMemory   uint64
	UsedPercent   float64
	ProcessRSS    uint64
	ProcessCPUPct float64
}

// CollectHostStats собирает статистику. Ошибки отдельных счетчиков не
// фатальны: соответствующие поля остаются нулевыми.
func CollectHostStats() (HostStats, error) {
	var s HostStats
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	} else {
		keep(err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemory = vm.Total
		s.UsedPercent = vm.UsedPercent
	} else {
		keep(err)
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		keep(err)
		return s, firstErr
	}
	if mi, err := proc.MemoryInfo(); err == nil {
		s.ProcessRSS = mi.RSS
	} else {
		keep(err)
	}
	if pct, err := proc.CPUPercent(); err == nil {
		s.ProcessCPUPct = pct
	} else {
		keep(err)
	}
	return s, firstErr
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPU: %d | RAM: %s (%.1f%% занято) | RSS процесса: %s | CPU процесса: %.1f%%",
		s.LogicalCPUs, FormatBytes(s.TotalMemory), s.UsedPercent, FormatBytes(s.ProcessRSS), s.ProcessCPUPct)
}

// FormatBytes печатает размер в двоичных единицах.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
