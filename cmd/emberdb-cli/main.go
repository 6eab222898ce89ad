// emberdb-cli - interactive client for EmberDB.
//
// Reads commands from stdin, sends them to the server, and prints the
// reply. Exit with QUIT or Ctrl-D.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:6379", "Server address")
	flag.Parse()

	rdb := redis.NewClient(&redis.Options{
		Addr:        *addr,
		DialTimeout: 5 * time.Second,
	})
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	fmt.Printf("Connected to %s\n", *addr)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> ", *addr)
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if strings.EqualFold(fields[0], "quit") {
			return
		}

		args := make([]interface{}, len(fields))
		for i, f := range fields {
			args[i] = f
		}

		result, err := rdb.Do(ctx, args...).Result()
		if err == redis.Nil {
			fmt.Println("(nil)")
			continue
		}
		if err != nil {
			fmt.Printf("(error) %v\n", err)
			continue
		}
		printResult(result, "")
	}
}

func printResult(result interface{}, indent string) {
	switch v := result.(type) {
	case string:
		fmt.Printf("%s%q\n", indent, v)
	case int64:
		fmt.Printf("%s(integer) %d\n", indent, v)
	case []interface{}:
		if len(v) == 0 {
			fmt.Printf("%s(empty array)\n", indent)
			return
		}
		for i, item := range v {
			fmt.Printf("%s%d) ", indent, i+1)
			printResult(item, "")
		}
	case nil:
		fmt.Printf("%s(nil)\n", indent)
	default:
		fmt.Printf("%s%v\n", indent, v)
	}
}
