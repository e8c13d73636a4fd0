package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/cachelab/ipvsim/cache"
	"github.com/cachelab/ipvsim/datarecording"
	"github.com/cachelab/ipvsim/monitoring"
)

var runFlags = struct {
	traceFile     string
	numAccesses   int
	cacheByteSize uint64
	ways          int
	log2BlockSize int
	policy        string
	dbPath        string
	seed          int64
	monitor       bool
	port          int
	openBrowser   bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an address trace through the cache model",
	Run: func(_ *cobra.Command, _ []string) {
		runSimulation()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.traceFile, "trace", "",
		"file with one address per line; empty runs a synthetic trace")
	runCmd.Flags().IntVar(&runFlags.numAccesses, "accesses", 100000,
		"number of synthetic accesses to generate")
	runCmd.Flags().Uint64Var(&runFlags.cacheByteSize, "cache-size",
		64*cache.KB, "cache capacity in bytes")
	runCmd.Flags().IntVar(&runFlags.ways, "ways", 16,
		"way associativity")
	runCmd.Flags().IntVar(&runFlags.log2BlockSize, "log2-block-size", 6,
		"log2 of the cache line size")
	runCmd.Flags().StringVar(&runFlags.policy,
		"policy", envOr("IPVSIM_POLICY", "ipv"),
		"replacement policy, ipv or lru")
	runCmd.Flags().StringVar(&runFlags.dbPath,
		"db", os.Getenv("IPVSIM_DB"),
		"SQLite database name; empty picks a unique name")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 1,
		"seed of the synthetic trace generator")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"serve run statistics over HTTP until interrupted")
	runCmd.Flags().IntVar(&runFlags.port, "port", 0,
		"port of the monitoring server")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitoring dashboard in a browser")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

type summaryEntry struct {
	Policy      string
	NumAccess   uint64
	NumHit      uint64
	NumMiss     uint64
	NumEviction uint64
	HitRate     float64
}

func runSimulation() {
	recorder := datarecording.New(runFlags.dbPath)
	recorder.CreateTable("summary", summaryEntry{})

	c := cache.MakeBuilder().
		WithCacheByteSize(runFlags.cacheByteSize).
		WithWayAssociativity(runFlags.ways).
		WithLog2CacheLineSize(runFlags.log2BlockSize).
		WithReplaceStrategy(runFlags.policy).
		WithDataRecorder(recorder).
		Build("Cache")

	var monitor *monitoring.Monitor
	if runFlags.monitor {
		monitor = monitoring.NewMonitor().
			WithPortNumber(runFlags.port)
		if runFlags.openBrowser {
			monitor.WithBrowserOpen()
		}

		monitor.RegisterCache(c)
		monitor.StartServer()
	}

	for _, addr := range loadTrace() {
		c.Access(addr)
	}

	stats := c.Stats()
	recorder.InsertData("summary", summaryEntry{
		Policy:      runFlags.policy,
		NumAccess:   stats.NumAccess,
		NumHit:      stats.NumHit,
		NumMiss:     stats.NumMiss,
		NumEviction: stats.NumEviction,
		HitRate:     stats.HitRate(),
	})

	reportStats(stats)

	if monitor != nil {
		waitForInterrupt()
		monitor.StopServer()
	}

	recorder.Close()
	atexit.Exit(0)
}

func loadTrace() []uint64 {
	if runFlags.traceFile == "" {
		return synthesizeTrace(runFlags.numAccesses, runFlags.seed)
	}

	file, err := os.Open(runFlags.traceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open trace: %s\n", err)
		atexit.Exit(1)
	}
	defer file.Close()

	var addrs []uint64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		addr, err := strconv.ParseUint(line, 0, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad trace line %q: %s\n", line, err)
			atexit.Exit(1)
		}

		addrs = append(addrs, addr)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot read trace: %s\n", err)
		atexit.Exit(1)
	}

	return addrs
}

// synthesizeTrace mixes a streaming sweep with reuse of a hot working set,
// so both the insertion depth and the promotion behavior of the policy
// matter for the hit rate.
func synthesizeTrace(n int, seed int64) []uint64 {
	r := rand.New(rand.NewSource(seed))
	blockSize := uint64(1) << runFlags.log2BlockSize

	addrs := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		if r.Intn(4) == 0 {
			addrs = append(addrs, uint64(i)*blockSize)
			continue
		}

		addrs = append(addrs, uint64(r.Intn(256))*blockSize)
	}

	return addrs
}

func reportStats(stats cache.Stats) {
	fmt.Printf("accesses:  %d\n", stats.NumAccess)
	fmt.Printf("hits:      %d\n", stats.NumHit)
	fmt.Printf("misses:    %d\n", stats.NumMiss)
	fmt.Printf("evictions: %d\n", stats.NumEviction)
	fmt.Printf("hit rate:  %.4f\n", stats.HitRate())
}

func waitForInterrupt() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	<-sigs
}
