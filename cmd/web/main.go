package main

import "smartattend_backend/internal/app"

func main() {
	app.Run()
}
