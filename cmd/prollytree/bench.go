package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"lukechampine.com/blake3"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/blockstore"
	"github.com/prollykv/prollytree/internal/encoding"
	"github.com/prollykv/prollytree/internal/node"
	"github.com/prollykv/prollytree/internal/nodestore"
	"github.com/prollykv/prollytree/internal/pkey"
	"github.com/prollykv/prollytree/internal/tree"
)

// benchFactor is fixed at 64, matching the branching factor the original
// benchmark harness used (examples/benchmark.rs).
const benchFactor = 64

var benchSizes = []struct {
	name string
	size int
}{
	{"1k entries", 1_000},
	{"50k entries", 50_000},
	{"1m entries", 1_000_000},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run get/set/iterate timing benchmarks over in-memory trees",
	Long: `Builds trees of increasing size against an in-memory block store and
times get, set, and full-iteration workloads, printing a Markdown table per
size. Mirrors the reference implementation's benchmark harness
(examples/benchmark.rs), which in turn aligns with Okra's benchmarks.`,
	RunE: runBench,
}

func runBench(cmd *cobra.Command, args []string) error {
	for _, tc := range benchSizes {
		printer := newBenchPrinter()
		t, err := buildBenchTree(tc.size)
		if err != nil {
			return fmt.Errorf("failed to build benchmark tree of size %d: %w", tc.size, err)
		}

		benchGetRandom(t, tc.size, "get random 1 entry", 100, 1, printer)
		benchGetRandom(t, tc.size, "get random 100 entries", 100, 100, printer)
		benchIterate(t, tc.size, 100, printer)
		benchSetRandom(t, tc.size, "set random 1 entry", 100, 1, printer)
		benchSetRandom(t, tc.size, "set random 100 entries", 100, 100, printer)
		benchSetRandom(t, tc.size, "set random 1k entries", 10, 1_000, printer)

		fmt.Println()
		printer.print(tc.name)
	}
	return nil
}

func buildBenchTree(size int) (*tree.Tree, error) {
	storage := nodestore.New(encoding.NewColumnarEncoder(), blockstore.NewMemoryStore())
	entries := make([]block.Entry, size)
	for i := 0; i < size; i++ {
		key := benchKey(i)
		value := benchValue(key)
		entries[i] = block.Entry{Key: pkey.RawKey(key), Value: value}
	}
	return tree.FromSet(benchFactor, entries, storage)
}

func benchKey(i int) []byte {
	return []byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)}
}

func benchValue(key []byte) []byte {
	h := blake3.Sum256(key)
	return h[:]
}

func benchGetRandom(t *tree.Tree, treeSize int, name string, iterations, batchSize int, p *benchPrinter) {
	runtimes := make([]float64, 0, iterations)
	ops := 0
	for i := 0; i < iterations; i++ {
		ops += batchSize
		start := time.Now()
		for j := 0; j < batchSize; j++ {
			key := benchKey(rand.Intn(treeSize))
			t.Get(pkey.RawKey(key))
		}
		runtimes = append(runtimes, elapsedMillis(start))
	}
	p.push(name, runtimes, ops)
}

func benchSetRandom(t *tree.Tree, treeSize int, name string, iterations, batchSize int, p *benchPrinter) {
	runtimes := make([]float64, 0, iterations)
	ops := 0
	for i := 0; i < iterations; i++ {
		ops += batchSize
		start := time.Now()
		for j := 0; j < batchSize; j++ {
			key := benchKey(rand.Intn(treeSize))
			t.Set(pkey.RawKey(key), benchValue(key))
		}
		runtimes = append(runtimes, elapsedMillis(start))
	}
	p.push(name, runtimes, ops)
}

func benchIterate(t *tree.Tree, treeSize int, iterations int, p *benchPrinter) {
	runtimes := make([]float64, 0, iterations)
	ops := 0
	for i := 0; i < iterations; i++ {
		ops += treeSize
		start := time.Now()
		cursor := t.GetRange(node.UnboundedRange())
		count := 0
		for {
			_, ok, err := cursor.Next()
			if err != nil || !ok {
				break
			}
			count++
		}
		runtimes = append(runtimes, elapsedMillis(start))
	}
	p.push("iterate over all entries", runtimes, ops)
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

type benchRow struct {
	name     string
	runtimes []float64
	ops      int
}

type benchPrinter struct {
	rows []benchRow
}

func newBenchPrinter() *benchPrinter {
	return &benchPrinter{}
}

func (p *benchPrinter) push(name string, runtimes []float64, ops int) {
	p.rows = append(p.rows, benchRow{name: name, runtimes: runtimes, ops: ops})
}

func (p *benchPrinter) print(name string) {
	fmt.Printf("### %s\n\n", name)
	fmt.Printf("| %-30s | %10s | %10s | %10s | %10s | %8s | %10s |\n",
		"", "iterations", "min (ms)", "max (ms)", "avg (ms)", "std", "ops / s")
	fmt.Printf("| %s | %s | %s | %s | %s | %s | %s |\n",
		dashes(30), dashes(10), dashes(10), dashes(10), dashes(10), dashes(8), dashes(10))
	for _, row := range p.rows {
		min, max, avg, std := summarize(row.runtimes)
		opsPerSec := float64(row.ops) * 1000.0 / sum(row.runtimes)
		fmt.Printf("| %-30s | %10d | %10.4f | %10.4f | %10.4f | %8.4f | %10.0f |\n",
			row.name, len(row.runtimes), min, max, avg, std, opsPerSec)
	}
	fmt.Println()
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func summarize(values []float64) (min, max, avg, std float64) {
	min, max = math.MaxFloat64, -math.MaxFloat64
	total := 0.0
	for _, v := range values {
		total += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg = total / float64(len(values))
	sumSq := 0.0
	for _, v := range values {
		delta := v - avg
		sumSq += delta * delta
	}
	std = math.Sqrt(sumSq / float64(len(values)))
	return
}
