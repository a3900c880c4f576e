package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/urfave/cli/v3"
)

func marshalRecord[T any](v *T) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRecords[T any](cmd *cli.Command, seq iter.Seq2[*T, error], interactive bool) error {
	root := cmd.Root()
	if interactive {
		return printJSONArrayInteractive(root.Writer, root.Reader, root.ErrWriter, seq, marshalRecord[T])
	}
	entries, err := collectForCLI(seq, marshalRecord[T])
	if err != nil {
		return err
	}
	return printJSONArray(root.Writer, entries)
}

func collectForCLI[T any](seq iter.Seq2[*T, error], marshal func(*T) ([]byte, error)) ([][]byte, error) {
	var (
		results [][]byte
		iterErr error
	)

	seq(func(value *T, err error) bool {
		if err != nil {
			iterErr = err
			return false
		}
		data, err := marshal(value)
		if err != nil {
			iterErr = err
			return false
		}
		results = append(results, data)
		return true
	})

	if iterErr != nil {
		return nil, iterErr
	}
	return results, nil
}

func printJSONArray(w io.Writer, entries [][]byte) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "[]")
		return err
	}
	if _, err := fmt.Fprintln(w, "["); err != nil {
		return err
	}
	for i, entry := range entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w, ","); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, string(entry)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "]")
	return err
}

const interactivePageSize = 10

func printJSONArrayInteractive[T any](w io.Writer, r io.Reader, prompt io.Writer, seq iter.Seq2[*T, error], marshal func(*T) ([]byte, error)) error {
	if _, err := fmt.Fprintln(w, "["); err != nil {
		return err
	}

	reader := bufio.NewReader(r)
	var (
		printedAny bool
		processed  int
		iterErr    error
	)

	seq(func(value *T, err error) bool {
		if err != nil {
			iterErr = err
			return false
		}

		data, err := marshal(value)
		if err != nil {
			iterErr = err
			return false
		}

		if printedAny {
			if _, err := fmt.Fprintln(w, ","); err != nil {
				iterErr = err
				return false
			}
		}

		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			iterErr = err
			return false
		}

		printedAny = true
		processed++

		if processed%interactivePageSize == 0 {
			if _, err := fmt.Fprint(prompt, "Press Enter to continue, or type 'q' to quit: "); err != nil {
				iterErr = err
				return false
			}

			input, err := reader.ReadString('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					return true
				}
				iterErr = err
				return false
			}

			if strings.EqualFold(strings.TrimSpace(input), "q") {
				return false
			}
		}

		return true
	})

	if _, err := fmt.Fprintln(w, "]"); err != nil && iterErr == nil {
		iterErr = err
	}
	return iterErr
}
