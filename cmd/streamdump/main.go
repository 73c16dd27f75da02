// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/streamdump/main.go
// Summary: CLI demo that spawns a PTY, drives a streamparse.Parser off its
// output, and prints each classified element.
// Usage: Run manually to exercise the parser against a real shell; not a
// terminal emulator.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/texelation/streamparse/config"
	"github.com/texelation/streamparse/metrics"
	"github.com/texelation/streamparse/protocol"
	"github.com/texelation/streamparse/recorder"
	"github.com/texelation/streamparse/registry"
	"github.com/texelation/streamparse/streamparse"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	shellCmd := flag.String("cmd", os.Getenv("SHELL"), "command to run inside the PTY")
	configPath := flag.String("config", "", "path to a JSON config file (default: platform config dir)")
	forwardSocket := flag.String("forward", "", "unix socket to forward classified elements to (overrides config)")
	quiet := flag.Bool("quiet", false, "suppress printing classified elements to stdout")
	flag.Parse()

	if *shellCmd == "" {
		*shellCmd = "/bin/sh"
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			log.Printf("streamdump: could not resolve default config path: %v", err)
		}
	}
	cfg := config.Default()
	if path != "" {
		cfg = config.Load(path)
	}
	if *forwardSocket != "" {
		cfg.ForwardSocket = *forwardSocket
	}

	reg := registry.New()
	for _, rp := range cfg.RulePacks {
		if err := reg.Load(rp); err != nil {
			log.Printf("streamdump: failed to load rule pack %s: %v", rp, err)
		}
	}

	counters := metrics.New()
	parser := streamparse.NewParser(
		streamparse.WithTransientTextHandler(func(string) { counters.ObserveTransient() }),
		streamparse.WithClassifyDurationHandler(func(d time.Duration) {
			counters.ObserveClassifyDuration(d.Seconds())
		}),
	)
	if err := reg.Apply(parser.Classifier()); err != nil {
		log.Fatalf("streamdump: failed to apply rule packs: %v", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(counters)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("streamdump: metrics listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("streamdump: metrics server error: %v", err)
			}
		}()
	}

	var rec *recorder.Recorder
	if cfg.Record {
		var err error
		rec, err = recorder.Open(cfg.RecorderDSN)
		if err != nil {
			log.Printf("streamdump: recording disabled, failed to open %s: %v", cfg.RecorderDSN, err)
		} else {
			defer rec.Close()
			log.Printf("streamdump: recording session %s to %s", rec.SessionID(), cfg.RecorderDSN)
		}
	}

	var forwardConn net.Conn
	if cfg.ForwardSocket != "" {
		var err error
		forwardConn, err = net.Dial("unix", cfg.ForwardSocket)
		if err != nil {
			log.Printf("streamdump: forwarding disabled, failed to dial %s: %v", cfg.ForwardSocket, err)
		} else {
			defer forwardConn.Close()
		}
	}

	parser.OnElementAdded(func(e streamparse.StreamElement) {
		counters.ObserveElement(e)

		if rec != nil {
			if err := rec.Record(e); err != nil {
				log.Printf("streamdump: record error: %v", err)
			}
		}
		if forwardConn != nil {
			if err := protocol.WriteMessage(forwardConn, e); err != nil {
				log.Printf("streamdump: forward error: %v", err)
			}
		}
		if !*quiet {
			if e.IsText {
				fmt.Printf("TEXT %q\n", e.Text)
			} else {
				fmt.Printf("%s %q params=%v\n", e.Kind, e.RawText, e.Parameters)
			}
		}
	})

	cmd := exec.Command(*shellCmd)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		log.Fatalf("streamdump: failed to start PTY: %v", err)
	}
	defer ptmx.Close()

	if size, err := pty.GetsizeFull(os.Stdin); err == nil {
		_ = pty.Setsize(ptmx, size)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err == nil {
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cmd.Process.Kill()
	}()

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()

	feedLoop(ptmx, parser, counters)

	_ = cmd.Wait()
}

func feedLoop(ptmx *os.File, parser *streamparse.Parser, counters *metrics.Counters) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			for _, r := range string(buf[:n]) {
				counters.ObserveRune()
				parser.Feed(r)
			}
		}
		if err != nil {
			return
		}
	}
}
