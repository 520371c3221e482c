// Package export writes graphs as Graphviz DOT and JSON node-link documents.
// Paths ending in ".sz" are written snappy-compressed.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/conet/pkg/graph"
)

// CompressedExt marks outputs written in the snappy framing format.
const CompressedExt = ".sz"

// Namer supplies display names. *catalog.Catalog implements it.
type Namer interface {
	ARGName(id int) string
	MGELabel(id int) string
	MGEGroup(id int) string
}

// NodeID renders the stable identifier shared by the DOT and JSON exports,
// e.g. "N_10_ARG_7", "N_3_MGE_PreFMT" or "N_1_ARG_Donor". IDs are plain DOT
// identifiers and need no quoting.
func NodeID(k graph.NodeKey) string {
	kind := "MGE"
	if k.IsARG {
		kind = "ARG"
	}
	tp := strconv.Itoa(int(k.Timepoint))
	switch {
	case k.Timepoint.IsDonor():
		tp = "Donor"
	case k.Timepoint.IsPreFMT():
		tp = "PreFMT"
	}
	return fmt.Sprintf("N_%d_%s_%s", k.EntityID, kind, tp)
}

// Label is the entity name followed by the timepoint on a second line.
func Label(n Namer, k graph.NodeKey) string {
	name := n.MGELabel(k.EntityID)
	if k.IsARG {
		name = n.ARGName(k.EntityID)
	}
	return name + "\n" + k.Timepoint.String()
}

// countingWriter tracks bytes handed to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteFile creates path, creating parent directories, and streams the
// output of write into it. It returns the number of bytes stored on disk.
func WriteFile(path string, write func(io.Writer) error) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := writeTo(f, strings.HasSuffix(path, CompressedExt), write)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

func writeTo(w io.Writer, compress bool, write func(io.Writer) error) (int64, error) {
	counter := &countingWriter{w: w}
	if compress {
		sw := snappy.NewBufferedWriter(counter)
		if err := write(sw); err != nil {
			return counter.n, err
		}
		err := sw.Close()
		return counter.n, err
	}

	bw := bufio.NewWriter(counter)
	if err := write(bw); err != nil {
		return counter.n, err
	}
	err := bw.Flush()
	return counter.n, err
}

// OpenFile opens an export for reading, transparently decompressing ".sz"
// files.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedExt) {
		return f, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{snappy.NewReader(f), f}, nil
}
