package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/piplayer/cmd/piplayer"
	"github.com/arthur-debert/piplayer/internal/version"
)

func main() {
	if err := generate(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}

// generate writes the piplayer(1) man page to w.
func generate(w io.Writer) error {
	header := &doc.GenManHeader{
		Title:   "PIPLAYER",
		Section: "1",
		Source:  "piplayer " + version.Version,
		Manual:  "piplayer manual",
	}
	return doc.GenMan(piplayer.NewRootCmd(), header, w)
}
