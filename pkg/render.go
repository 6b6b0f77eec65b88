package dff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/vectorio"
	"gopkg.in/yaml.v3"
)

// Linux IOV_MAX; writev rejects longer vectors
const maxIovecs = 1024

// Render writes groups to w in the given format
func Render(w io.Writer, format string, groups []DuplicateGroup) error {
	if groups == nil {
		groups = []DuplicateGroup{}
	}

	var lines [][]byte
	switch strings.ToLower(format) {
	case FormatJSON, "":
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		lines = [][]byte{data, []byte("\n")}
	case FormatYAML:
		data, err := yaml.Marshal(groups)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		lines = [][]byte{data}
	case FormatList:
		lines = listLines(groups)
	case FormatFdupes:
		lines = fdupesLines(groups)
	default:
		return ValidateOutputFormat(format)
	}

	return writeLines(w, lines)
}

// listLines renders a blank line, the hash (or size when unhashed) after a single space,
// then the paths indented
func listLines(groups []DuplicateGroup) [][]byte {
	var lines [][]byte
	for _, g := range groups {
		header := strconv.FormatInt(g.Size, 10)
		if g.Hash != nil {
			header = *g.Hash
		}
		lines = append(lines, []byte("\n "+header+"\n"))
		for _, p := range g.Paths {
			lines = append(lines, []byte("  "+p+"\n"))
		}
	}
	return lines
}

// fdupesLines renders one path per line with a blank line after each group
func fdupesLines(groups []DuplicateGroup) [][]byte {
	var lines [][]byte
	for _, g := range groups {
		for _, p := range g.Paths {
			lines = append(lines, []byte(p+"\n"))
		}
		lines = append(lines, []byte("\n"))
	}
	return lines
}

// writeLines writes the buffers in order. Files get vectored writes in IOV_MAX chunks.
func writeLines(w io.Writer, lines [][]byte) error {
	file, ok := w.(*os.File)
	if !ok {
		for _, line := range lines {
			if _, err := w.Write(line); err != nil {
				return err
			}
		}
		return nil
	}

	iovecs := make([]syscall.Iovec, 0, len(lines))
	total := 0
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		iov := syscall.Iovec{Base: &line[0]}
		iov.SetLen(len(line))
		iovecs = append(iovecs, iov)
		total += len(line)
	}

	// Fd puts the descriptor in blocking mode, which writev relies on
	fd := file.Fd()
	written := 0
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := offset + maxIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}
		nw, err := vectorio.WritevRaw(fd, iovecs[offset:end])
		if nw > 0 {
			written += nw
		}
		if err != nil || nw < chunkLen(iovecs[offset:end]) {
			break
		}
	}

	if written < total {
		// finish a short or failed vectored write the ordinary way
		rest := bytes.Join(lines, nil)[written:]
		if _, err := file.Write(rest); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func chunkLen(iovecs []syscall.Iovec) int {
	n := 0
	for _, iov := range iovecs {
		n += int(iov.Len)
	}
	return n
}
