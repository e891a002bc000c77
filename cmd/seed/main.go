package main

import (
	"log"

	tool "github.com/emmott-systems/soporte-api/internal/tools/seed"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
