package main

import (
	"dqx0.com/go/haka/haka"
	"dqx0.com/go/haka/internal/obs"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// newUserRouter builds the user API as a standalone router; main
// mounts it under /api/users.
func newUserRouter(log obs.Logger) *haka.Router {
	r := haka.NewRouter(log)

	r.Get("/list", func(req *haka.Request, res *haka.Response) {
		res.JSON([]user{
			{ID: 1, Name: "Alice"},
			{ID: 2, Name: "Bob"},
			{ID: 3, Name: "Charlie"},
		})
	})

	r.Get("/profile", func(req *haka.Request, res *haka.Response) {
		res.JSON(statusPayload{
			Title:   "User Profile",
			Message: "User profile details from the modular router.",
		})
	})

	return r
}
