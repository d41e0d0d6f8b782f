package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"battleship-server/server"
)

const defaultPort = 4300

func main() {
	port := flag.Int("port", portFromEnv(), "listen port")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	registry := server.NewRegistry(rand.New(rand.NewSource(time.Now().UnixNano())))
	gateway := server.NewGateway(registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.HandleWS)

	addr := fmt.Sprintf(":%d", *port)
	log.Info("main", "msg", "listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("main", "err", err)
	}
}

func portFromEnv() int {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			return port
		}
	}
	return defaultPort
}
