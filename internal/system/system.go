// Package system probes the host: ffmpeg availability, hardware encoder
// support, media durations, and how many render workers the machine can
// carry.
package system

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit; ffmpeg child processes
// and parallel renders eat descriptors quickly.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] could not raise file limit: %v", err)
	}
}

// CheckFFmpeg reports whether the ffmpeg binary is runnable.
func CheckFFmpeg() bool {
	return exec.Command("ffmpeg", "-version").Run() == nil
}

// BestH264Encoder picks the fastest available H.264 encoder: VideoToolbox
// on macOS, NVENC with NVIDIA hardware, otherwise software x264.
func BestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// DefaultQuality maps an encoder to its quality knob's sensible default.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // bitrate multiplier
	case "h264_nvenc":
		return 28 // cq
	default:
		return 23 // crf
	}
}

// MediaDuration asks ffprobe for a file's duration in seconds.
func MediaDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}
	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration); err != nil {
		return 0, err
	}
	return duration, nil
}

// renderWorkerMemNeed is the rough per-worker working set of a full-frame
// chart render plus its encode, used to back off on small machines.
const renderWorkerMemNeed = 512 << 20

// RenderWorkers sizes the asset-production pool: one worker per logical
// CPU, capped by available memory. Returns at least 1.
func RenderWorkers() int {
	workers, err := cpu.Counts(true)
	if err != nil || workers < 1 {
		workers = runtime.NumCPU()
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		byMem := int(vm.Available / renderWorkerMemNeed)
		if byMem < workers {
			workers = byMem
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
