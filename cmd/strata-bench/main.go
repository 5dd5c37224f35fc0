package main

import (
	"flag"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-strata/v1/layer"
)

var (
	concurrency = flag.Int("c", 4, "Number of concurrent workers")
	ops         = flag.Int("n", 10_000_000, "Operations per worker")
	writeEvery  = flag.Int("w", 512, "One write per this many operations")
	parallelism = flag.Int("p", layer.DefaultParallelism, "Read-side parallelism")
)

type record struct {
	value int64
	_     [120]byte
}

func main() {
	flag.Parse()

	log.Printf("Starting benchmark: %d workers, %d ops each, 1/%d writes, P=%d",
		*concurrency, *ops, *writeEvery, *parallelism)

	l := layer.NewAsymmetric("bench", layer.WithParallelism(*parallelism))
	var shared record
	h := layer.HandleOf(&shared)

	start := time.Now()
	var eg errgroup.Group
	for i := 0; i < *concurrency; i++ {
		eg.Go(func() error {
			for j := 0; j < *ops; j++ {
				if j%*writeEvery == 0 {
					g := l.WriteLock(h)
					shared.value++
					g.Release()
					continue
				}
				g := l.ReadLock(h)
				_ = shared.value
				g.Release()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}
	elapsed := time.Since(start)

	total := int64(*concurrency) * int64(*ops)
	log.Printf("Finished in %v", elapsed)
	log.Printf("Throughput: %.2f ops/s", float64(total)/elapsed.Seconds())
	log.Printf("Avg Latency: %.2f ns", elapsed.Seconds()/float64(total)*1e9)
	log.Printf("Writes applied: %d", shared.value)
}
