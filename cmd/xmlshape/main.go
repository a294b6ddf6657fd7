package main

import (
	"fmt"
	"os"

	"github.com/denismitr/xmlshape"
)

func main() {
	p, err := xmlshape.New(xmlshape.DefaultRegistry(), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
