// Command hakad runs the haka demo server with a handful of example
// routes, a user API sub-router mounted under /api/users, and a
// static mount serving ./public under /static.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"dqx0.com/go/haka/haka"
	"dqx0.com/go/haka/internal/obs"
)

const banner = `
                ██   ██   █████   ██   ██   █████
                ██   ██  ██   ██  ██   ██  ██   ██
                ███████  ███████  █████    ███████
                ██   ██  ██   ██  ██   ██  ██   ██
                ██   ██  ██   ██  ██   ██  ██   ██
`

type product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type statusPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

const infoPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Haka Server Info</title>
</head>
<body>
    <h1>Haka Server Info</h1>
    <p>Available Routes:</p>
    <ul>
        <li><a href="/">GET /</a> - Welcome Message</li>
        <li><a href="/hello">GET /hello</a> - HTML Greeting</li>
        <li><a href="/status">GET /status</a> - Server Status (JSON)</li>
        <li><a href="/product/1">GET /product/1</a> - Example Product (JSON)</li>
        <li><a href="/info">GET /info</a> - This Info Page (HTML)</li>
        <li><a href="/json">GET /json</a> - 15 Products List (JSON)</li>
        <li><a href="/api/users/list">GET /api/users/list</a> - List Users (JSON)</li>
        <li><a href="/api/users/profile">GET /api/users/profile</a> - User Profile (JSON)</li>
        <li><a href="/static/">Static Files</a> - Serves from ./public/</li>
    </ul>
</body>
</html>`

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	debugLog := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	minLevel := obs.Info
	if *debugLog {
		minLevel = obs.Debug
	}
	logger := obs.StdLogger{L: log.New(os.Stderr, "", log.LstdFlags), Min: minLevel}
	if *debugLog {
		logger.Logf(obs.Info, "debug logging enabled")
	}

	s := &haka.Server{Addr: *addr, Log: logger}

	s.Get("/", func(req *haka.Request, res *haka.Response) {
		res.Text("Welcome to Haka Server!")
	})

	s.Get("/hello", func(req *haka.Request, res *haka.Response) {
		res.HTML("<h1>Hello, Haka!</h1><p>This is an HTML response from the /hello route.</p>")
	})

	s.Get("/status", func(req *haka.Request, res *haka.Response) {
		res.JSON(statusPayload{
			Title:   "Server Status",
			Message: "Haka server is operational and ready!",
		})
	})

	s.Get("/product/1", func(req *haka.Request, res *haka.Response) {
		res.JSON(product{ID: 101, Name: "Example Gadget", Price: 19.99})
	})

	s.Get("/info", func(req *haka.Request, res *haka.Response) {
		res.HTML(infoPage)
	})

	s.Get("/json", func(req *haka.Request, res *haka.Response) {
		products := make([]product, 0, 15)
		for i := 0; i < 15; i++ {
			price := float64(int(rand.Float64()*9900+100)) / 100
			products = append(products, product{
				ID:    i + 1,
				Name:  fmt.Sprintf("Product %d", i+1),
				Price: price,
			})
		}
		res.JSON(products)
	})

	s.Mount("/api/users", newUserRouter(logger))

	s.ServeStatic("/static", "./public")

	fmt.Print(banner, "\n")
	fmt.Printf("Running on http://%s\n\n", *addr)
	if err := s.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
