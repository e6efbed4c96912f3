package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads a document from the --file flag or from piped stdin.
type FileReader struct {
	fileFlagValue string
	stdin         io.Reader
	isTerminal    func() bool
}

func (fr *FileReader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to the input file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Source returns the file path, or "stdin".
func (fr *FileReader) Source() string {
	if fr.fileFlagValue == "" {
		return "stdin"
	}
	return fr.fileFlagValue
}

// Read returns the raw input.
func (fr *FileReader) Read() ([]byte, error) {
	if fr.fileFlagValue != "" {
		data, err := os.ReadFile(fr.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return data, nil
	}

	stdin, isTerminal := fr.stdin, fr.isTerminal
	if stdin == nil {
		stdin = os.Stdin
	}
	if isTerminal == nil {
		isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}

	if isTerminal() {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe the input")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}
