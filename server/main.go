package main

import "github.com/bait0ngxaxa/survey-sub000/server/internal/cmd"

func main() {
	cmd.Execute()
}
