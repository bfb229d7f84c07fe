// Copyright 2020 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command promqllint parses and semantically validates PromQL expressions
// given on the command line, in files, or on stdin, using package lexer.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/metalmatze/signal/internalserver"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/prometheus-community/promql-ast/lexer"
	"github.com/prometheus-community/promql-ast/metrics"
)

type arrayFlags []string

func (i *arrayFlags) String() string { return fmt.Sprint(*i) }

func (i *arrayFlags) Set(value string) error {
	if value == "" {
		return nil
	}
	*i = append(*i, value)
	return nil
}

func main() {
	var (
		internalListenAddress string
		maxDepth               int
		queries                arrayFlags
	)

	flagset := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagset.StringVar(&internalListenAddress, "internal-listen-address", "", "The address an internal HTTP server should listen on to expose metrics and pprof about this run.")
	flagset.IntVar(&maxDepth, "max-depth", 128, "Maximum expression nesting depth the parser will descend before rejecting input.")
	flagset.Var(&queries, "query", "A literal PromQL query to lint. May be repeated. If neither -query nor any file arguments are given, queries are read from stdin, one per line.")

	//nolint: errcheck // Parse() will exit on error.
	flagset.Parse(os.Args[1:])

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(reg)
	opts := []lexer.Option{lexer.WithMaxDepth(maxDepth), lexer.WithMetrics(recorder)}

	sources, err := collectSources(queries, flagset.Args())
	if err != nil {
		log.Fatalf("Failed to collect queries to lint: %v", err)
	}
	if len(sources) == 0 {
		log.Fatalf("No queries given: pass -query, file arguments, or pipe queries on stdin")
	}

	var failed int32
	var g run.Group
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			lintAll(ctx, sources, opts, &failed)
			return nil
		}, func(error) {
			cancel()
		})
	}

	if internalListenAddress != "" {
		h := internalserver.NewHandler(
			internalserver.WithName("Internal promqllint API"),
			internalserver.WithPrometheusRegistry(reg),
			internalserver.WithPProf(),
		)

		l, err := net.Listen("tcp", internalListenAddress)
		if err != nil {
			log.Fatalf("Failed to listen on internal address: %v", err)
		}

		srv := &http.Server{Handler: h}
		g.Add(func() error {
			log.Printf("Listening on %v for metrics and pprof", l.Addr())
			if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal server stopped with %v", err)
				return err
			}
			return nil
		}, func(error) {
			srv.Close()
		})

		g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))
	}

	if err := g.Run(); err != nil {
		if !errors.As(err, &run.SignalError{}) {
			log.Printf("promqllint stopped with %v", err)
		} else {
			log.Print("Caught signal; exiting gracefully...")
		}
	}

	if atomic.LoadInt32(&failed) > 0 {
		os.Exit(1)
	}
}

type namedSource struct {
	name  string
	query string
}

// collectSources gathers queries to lint from -query flags, file arguments
// (one query per non-empty, non-comment line), or stdin when neither is
// given.
func collectSources(queries arrayFlags, files []string) ([]namedSource, error) {
	var out []namedSource

	for i, q := range queries {
		out = append(out, namedSource{name: fmt.Sprintf("-query[%d]", i), query: q})
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		lines, err := scanQueryLines(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}

	if len(queries) == 0 && len(files) == 0 {
		lines, err := scanQueryLines(os.Stdin, "<stdin>")
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}

	return out, nil
}

func scanQueryLines(r *os.File, name string) ([]namedSource, error) {
	var out []namedSource
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		out = append(out, namedSource{name: fmt.Sprintf("%s:%d", name, line), query: text})
	}
	return out, scanner.Err()
}

// lintAll parses and validates every source concurrently, logging the
// outcome of each and incrementing failed for every rejection. It stops
// launching new work once ctx is cancelled (e.g. on SIGINT/SIGTERM) but lets
// already-running lints finish.
func lintAll(ctx context.Context, sources []namedSource, opts []lexer.Option, failed *int32) {
	var wg sync.WaitGroup
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return
		default:
		}

		wg.Add(1)
		go func(src namedSource) {
			defer wg.Done()
			if _, err := lexer.Parse(src.query, opts...); err != nil {
				atomic.AddInt32(failed, 1)
				log.Printf("%s: %v", src.name, err)
				return
			}
			log.Printf("%s: ok", src.name)
		}(src)
	}
	wg.Wait()
}
