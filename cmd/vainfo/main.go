// Command vainfo prints the measured frequency response of the
// virtual-analog filters.
//
// Usage:
//
//	vainfo [flags] [ladder-mode ...]
//
// Without arguments it prints the response of every ladder mode plus the
// SVF modes.
//
// Examples:
//
//	vainfo lp24
//	vainfo -cutoff 2000 -res 0.8 lp24 hp24 bp12
//	vainfo -svf
//	vainfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-va/dsp/filter/va"
	"github.com/cwbudde/algo-va/measure/response"
)

type ladderEntry struct {
	name string
	mode va.LadderMode
}

var ladderRegistry = []ladderEntry{
	{"lp6", va.LadderLP6},
	{"lp12", va.LadderLP12},
	{"lp18", va.LadderLP18},
	{"lp24", va.LadderLP24},
	{"hp6", va.LadderHP6},
	{"hp12", va.LadderHP12},
	{"hp18", va.LadderHP18},
	{"hp24", va.LadderHP24},
	{"bp12", va.LadderBP12},
	{"bp24", va.LadderBP24},
	{"n12", va.LadderN12},
}

var svfRegistry = []struct {
	name string
	mode va.SvfMode
}{
	{"svf-lp", va.SvfLP},
	{"svf-hp", va.SvfHP},
	{"svf-bp1", va.SvfBP1},
	{"svf-notch", va.SvfNotch},
	{"svf-bp2", va.SvfBP2},
}

// probeFrequencies are the table columns in Hz.
var probeFrequencies = []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 16000}

func main() {
	cutoff := flag.Float64("cutoff", 1000, "cutoff frequency in Hz")
	res := flag.Float64("res", 0.5, "resonance in [0, 1]")
	sampleRate := flag.Float64("rate", 44100, "sample rate in Hz")
	fftSize := flag.Int("fft", 8192, "FFT size for the response measurement")
	svf := flag.Bool("svf", false, "show the SVF modes instead of ladder modes")
	list := flag.Bool("list", false, "list available mode names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vainfo [flags] [ladder-mode ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints measured magnitude responses of the VA filters in dB.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every ladder mode.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vainfo lp24 hp24\n")
		fmt.Fprintf(os.Stderr, "  vainfo -cutoff 2000 -res 0.8 lp24\n")
		fmt.Fprintf(os.Stderr, "  vainfo -svf\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	if *svf {
		printSvfTable(*cutoff, *res, *sampleRate, *fftSize)
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		for _, e := range ladderRegistry {
			names = append(names, e.name)
		}
	}

	entries := resolveLadderEntries(names)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching filter modes\n")
		os.Exit(1)
	}

	printLadderTable(entries, *cutoff, *res, *sampleRate, *fftSize)
}

func printList() {
	for _, e := range ladderRegistry {
		fmt.Println(e.name)
	}

	for _, e := range svfRegistry {
		fmt.Println(e.name)
	}
}

func resolveLadderEntries(names []string) []ladderEntry {
	byName := make(map[string]ladderEntry, len(ladderRegistry))
	for _, e := range ladderRegistry {
		byName[e.name] = e
	}

	var result []ladderEntry

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))

		e, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown mode %q (use -list to see available)\n", name)
			continue
		}

		result = append(result, e)
	}

	return result
}

func printLadderTable(entries []ladderEntry, cutoff, res, sampleRate float64, fftSize int) {
	params := va.NewParams()
	params.SetSampleRate(sampleRate)
	params.SetFrequency(cutoff)
	params.SetResonance(res)

	tw := newTable()

	for _, e := range entries {
		ladder, err := va.NewLadder(params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		ladder.SetAlgorithm(va.AlgoLinear)
		ladder.SetMode(e.mode)

		printRow(tw, e.mode.String(), ladder, sampleRate, fftSize)
	}

	flushTable(tw)
}

func printSvfTable(cutoff, res, sampleRate float64, fftSize int) {
	tw := newTable()

	for _, e := range svfRegistry {
		params := va.NewParams()
		params.SetSampleRate(sampleRate)
		params.SetFrequency(cutoff)
		params.SetResonance(res)
		params.SetMode(e.mode)

		filter, err := va.NewSvf(params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		printRow(tw, e.mode.String(), filter, sampleRate, fftSize)
	}

	flushTable(tw)
}

func newTable() *tabwriter.Writer {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Mode")
	for _, f := range probeFrequencies {
		fmt.Fprintf(tw, "\t%.0f Hz", f)
	}
	fmt.Fprintf(tw, "\n")

	fmt.Fprintf(tw, "----")
	for range probeFrequencies {
		fmt.Fprintf(tw, "\t-----")
	}
	fmt.Fprintf(tw, "\n")

	return tw
}

func printRow(tw *tabwriter.Writer, label string, proc response.Processor, sampleRate float64, fftSize int) {
	mag, err := response.Magnitude(proc, fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	db := response.MagnitudeDB(mag)

	fmt.Fprintf(tw, "%s", label)

	for _, f := range probeFrequencies {
		bin := int(f * float64(fftSize) / sampleRate)
		if bin >= len(db) {
			bin = len(db) - 1
		}

		fmt.Fprintf(tw, "\t%.1f", db[bin])
	}

	fmt.Fprintf(tw, "\n")
}

func flushTable(tw *tabwriter.Writer) {
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
