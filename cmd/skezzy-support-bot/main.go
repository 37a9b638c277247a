package main

import (
	"log"

	"github.com/valik230211/skezzy-support-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
