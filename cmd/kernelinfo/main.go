// Command kernelinfo reports which elementwise kernel this machine runs and
// exercises the request bridge from the command line.
//
// Usage:
//
//	kernelinfo [flags] [input ...]
//
// Each positional argument is sent through a bridge handle and the response
// printed, followed by the request counters.
//
// Examples:
//
//	kernelinfo
//	kernelinfo -check 1024
//	kernelinfo -config algobridge.hcl hi there
//	kernelinfo -generic -check 64
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-bridge/bridge"
	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/config"
	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/internal/handle"
	"github.com/cwbudde/algo-bridge/internal/metrics"
	"github.com/cwbudde/algo-bridge/kernel"
)

func main() {
	configPath := flag.String("config", "", "HCL config file")
	check := flag.Int("check", 0, "verify the selected kernel bit-exactly for every length up to N")
	generic := flag.Bool("generic", false, "force the scalar kernel (overrides the config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kernelinfo [flags] [input ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints CPU features and registered kernels, and sends each input\n")
		fmt.Fprintf(os.Stderr, "through a bridge handle.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *generic {
		cfg.Kernel.ForceGeneric = true
	}
	cfg.Apply()

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	bridge.SetLogger(logger)

	if err := printKernels(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *check > 0 {
		if err := runCheck(os.Stdout, *check); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		rec := metrics.New()
		b := bridge.New(
			bridge.WithAllocator(arena.NewHeap(cfg.ArenaOptions()...)),
			bridge.WithMetrics(rec),
		)
		if err := runProcess(os.Stdout, b, rec, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printKernels(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "CPU:      %s\nSelected: %s\n\n", cpu.DetectFeatures(), kernel.Selected().Name); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Kernel\tLevel\tPriority\tGroup f32\tGroup f64\tSupported\n")
	fmt.Fprintf(tw, "------\t-----\t--------\t---------\t---------\t---------\n")
	for _, e := range kernel.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%t\n",
			e.Name, e.Level, e.Priority, e.GroupF32, e.GroupF64, e.Supported)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// runCheck compares the selected kernel against src*Factor for every length
// in [0, maxLen].
func runCheck(w io.Writer, maxLen int) error {
	src32 := make([]float32, maxLen)
	src64 := make([]float64, maxLen)
	for i := range maxLen {
		v := math.Sin(float64(i)*0.37) * float64(i+1)
		src32[i] = float32(v)
		src64[i] = v
	}

	dst32 := make([]float32, maxLen)
	dst64 := make([]float64, maxLen)
	for n := 0; n <= maxLen; n++ {
		kernel.TransformF32(dst32, src32[:n])
		for i := range n {
			if math.Float32bits(dst32[i]) != math.Float32bits(src32[i]*kernel.Factor) {
				return fmt.Errorf("float32 mismatch at len %d index %d: got %v, want %v", n, i, dst32[i], src32[i]*kernel.Factor)
			}
		}

		kernel.TransformF64(dst64, src64[:n])
		for i := range n {
			if math.Float64bits(dst64[i]) != math.Float64bits(src64[i]*kernel.Factor) {
				return fmt.Errorf("float64 mismatch at len %d index %d: got %v, want %v", n, i, dst64[i], src64[i]*kernel.Factor)
			}
		}
	}

	_, err := fmt.Fprintf(w, "\ncheck: %s matches scalar reference for lengths 0..%d\n", kernel.Selected().Name, maxLen)
	return err
}

// runProcess sends each input through one handle, then prints the request
// counters recorded in rec.
func runProcess(w io.Writer, b *bridge.Bridge, rec *metrics.Recorder, inputs []string) error {
	h := b.Create()
	if h == handle.Nil {
		return fmt.Errorf("failed to create handle")
	}
	defer b.Destroy(h)

	fmt.Fprintln(w)
	for _, in := range inputs {
		out, err := b.Call(h, []byte(in))
		if err != nil {
			return fmt.Errorf("process %q: status %d: %w", in, bridge.StatusOf(err), err)
		}
		if _, err := fmt.Fprintf(w, "%q -> %q (%d bytes)\n", in, out, len(out)); err != nil {
			return err
		}
	}

	if rec != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n", rec.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}
