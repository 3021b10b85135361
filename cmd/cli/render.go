package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/akeren/levelup-fit/domain/landing"
)

// RenderPage writes the landing page for the theme in args[0] to the file
// in args[1], or to stdout when no file is given.
func RenderPage(args []string, stdout io.Writer) error {
	if len(args) > 2 {
		return fmt.Errorf("render takes at most two arguments, got %d", len(args))
	}

	themeName := landing.ThemeLight
	if len(args) > 0 {
		themeName = args[0]
	}

	if len(args) < 2 || args[1] == "-" {
		return landing.WritePage(stdout, themeName)
	}

	file, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[1], err)
	}

	w := bufio.NewWriter(file)
	if err := landing.WritePage(w, themeName); err != nil {
		_ = file.Close()
		_ = os.Remove(args[1])
		return err
	}

	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	return file.Close()
}
