package main

import (
	"fmt"
	"os"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd("mashery_export", "Export the Mashery API catalog to an XLSX workbook")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
