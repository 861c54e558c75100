package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a JSON document of type T from the file named by its
// flag, or from stdin when the flag is unset.
type FileReader[T any] struct {
	fileFlagValue string

	// Stdin is read when no file is given. Nil means os.Stdin.
	Stdin *os.File
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "request",
		Aliases:     []string{"r"},
		Usage:       "path to a JSON request body (reads stdin when set to -)",
		Destination: &fr.fileFlagValue,
	}
}

// IsSet reports whether the flag was given.
func (fr *FileReader[T]) IsSet() bool {
	return fr.fileFlagValue != ""
}

func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	if fr.fileFlagValue != "" && fr.fileFlagValue != "-" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		stdin := fr.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		if term.IsTerminal(int(stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); pass a file or pipe JSON input")
		}
		reader = stdin
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
