// emberdb-bench - load generator for EmberDB.
//
// Usage:
//
//	emberdb-bench [flags]
//
// Flags:
//
//	-addr string     Server address (default "127.0.0.1:6379")
//	-clients int     Number of parallel clients (default 50)
//	-requests int    Total number of requests (default 100000)
//	-pipeline int    Commands per pipeline batch (default 1)
//	-test string     Test type: set,get,mixed,sadd (default "mixed")
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:6379", "Server address")
	clients := flag.Int("clients", 50, "Number of parallel clients")
	requests := flag.Int("requests", 100000, "Total number of requests")
	pipeline := flag.Int("pipeline", 1, "Commands per pipeline batch")
	testType := flag.String("test", "mixed", "Test type: set,get,mixed,sadd")
	flag.Parse()

	if *pipeline < 1 {
		*pipeline = 1
	}

	fmt.Println("====== EmberDB Benchmark ======")
	fmt.Printf("Server: %s\n", *addr)
	fmt.Printf("Clients: %d\n", *clients)
	fmt.Printf("Requests: %d\n", *requests)
	fmt.Printf("Pipeline: %d\n", *pipeline)
	fmt.Printf("Test: %s\n", *testType)
	fmt.Println()

	rdb := redis.NewClient(&redis.Options{
		Addr:     *addr,
		PoolSize: *clients,
	})
	defer rdb.Close()

	ctx := context.Background()
	var completed, errors int64
	reqPerClient := *requests / *clients

	start := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()

			for j := 0; j < reqPerClient; j += *pipeline {
				pipe := rdb.Pipeline()
				batch := *pipeline
				if j+batch > reqPerClient {
					batch = reqPerClient - j
				}
				for b := 0; b < batch; b++ {
					key := fmt.Sprintf("key:%d:%d", clientID, j+b)
					value := fmt.Sprintf("value:%d:%d", clientID, j+b)

					switch *testType {
					case "set":
						pipe.Do(ctx, "SET", key, value)
					case "get":
						pipe.Do(ctx, "GET", key)
					case "sadd":
						pipe.Do(ctx, "SADD", fmt.Sprintf("set:%d", clientID), value)
					case "mixed":
						if (j+b)%2 == 0 {
							pipe.Do(ctx, "SET", key, value)
						} else {
							pipe.Do(ctx, "GET", key)
						}
					default:
						pipe.Do(ctx, "PING")
					}
				}

				cmds, err := pipe.Exec(ctx)
				if err != nil && err != redis.Nil {
					atomic.AddInt64(&errors, int64(len(cmds)))
					continue
				}
				atomic.AddInt64(&completed, int64(len(cmds)))
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("====== Results ======")
	fmt.Printf("Total time: %v\n", elapsed)
	fmt.Printf("Completed: %d\n", completed)
	fmt.Printf("Errors: %d\n", errors)
	fmt.Printf("Requests/sec: %.2f\n", float64(completed)/elapsed.Seconds())
}
