package main

import "unimaterials/internal/app"

func main() {
	app.Run()
}
