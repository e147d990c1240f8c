// Package haka is a small HTTP/1.1 server built directly on TCP,
// aimed at learning, control, and embeddability in tools.
//
// Highlights
//   - Server: one goroutine per connection, one request per
//     connection (no keep-alive), robust request-head parsing,
//     panic isolation to 500, logging/metrics hooks.
//   - Router: exact-match routes, ordered static-file mounts with
//     directory-traversal defense, route groups, and mounting of
//     sub-routers under a prefix.
//   - Response helpers for plain text, HTML, JSON, and files with
//     extension-based MIME guessing.
//
// Quick start:
//
//	s := &haka.Server{Addr: "127.0.0.1:8080"}
//	s.Get("/", func(req *haka.Request, res *haka.Response) {
//	    res.Text("Welcome!")
//	})
//	s.ServeStatic("/static", "./public")
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package haka
