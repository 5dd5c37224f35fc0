package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirkobrombin/go-strata/v1/layer"
)

var (
	duration = flag.Duration("duration", time.Minute, "Duration of the stress test")
	procs    = flag.Int("procs", 8, "Number of concurrent goroutines")
	entities = flag.Int("entities", 4096, "Number of lock targets")
	batch    = flag.Int("batch", 3, "Targets per batch acquisition")
)

type entity struct {
	value int64
	_     [120]byte
}

func main() {
	flag.Parse()

	go func() {
		log.Println("Starting pprof on :6060")
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	sym := layer.NewSymmetric("stress-entities")
	asym := layer.NewAsymmetric("stress-counters")

	targets := make([]entity, *entities)
	handles := make([]layer.Handle, *entities)
	for i := range targets {
		handles[i] = layer.HandleOf(&targets[i])
	}

	log.Printf("Stressing %d targets with %d goroutines for %v (batch size %d)",
		*entities, *procs, *duration, *batch)

	deadline := time.Now().Add(*duration)
	var totalOps atomic.Int64
	var wg sync.WaitGroup
	for p := 0; p < *procs; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(id) + 1))
			hs := make([]layer.Handle, *batch)
			for time.Now().Before(deadline) {
				for i := 0; i < 1000; i++ {
					switch r.Intn(4) {
					case 0:
						// Overlapping batch in randomized argument order; the
						// guard's ascending discipline keeps this safe.
						for j := range hs {
							hs[j] = handles[r.Intn(*entities)]
						}
						g := sym.SynchronizeAll(hs...)
						g.Release()
					case 1:
						k := r.Intn(*entities)
						g := asym.WriteLock(handles[k])
						targets[k].value++
						g.Release()
					default:
						k := r.Intn(*entities)
						g := asym.ReadLock(handles[k])
						_ = targets[k].value
						g.Release()
					}
				}
				totalOps.Add(1000)
			}
		}(p)
	}

	monitor := time.NewTicker(5 * time.Second)
	defer monitor.Stop()
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	for {
		select {
		case <-done:
			log.Printf("Stress test completed: %d ops", totalOps.Load())
			printMemStats()
			return
		case <-monitor.C:
			log.Printf("ops so far: %d", totalOps.Load())
			printMemStats()
		}
	}
}

func printMemStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("Alloc = %v MiB", m.Alloc/1024/1024)
	fmt.Printf("\tTotalAlloc = %v MiB", m.TotalAlloc/1024/1024)
	fmt.Printf("\tSys = %v MiB", m.Sys/1024/1024)
	fmt.Printf("\tNumGC = %v\n", m.NumGC)
}
