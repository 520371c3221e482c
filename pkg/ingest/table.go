// Package ingest reads patient presence tables into observation records.
//
// A table has one row per (patient, ARG, MGE) and one column per timepoint:
//
//	Patient,Disease,ARG,MGE,Donor,PreFMT,PostFMT_7,PostFMT_30
//	1,rCDI,tetM,Tn916,0,1,1,0
//
// Timepoint columns are recognised by name; other extra columns are
// ignored. A cell of "1" or "2" marks the pair as observed.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/logging"
	"github.com/dd0wney/conet/pkg/validation"
)

var (
	ErrNoHeader      = errors.New("table has no header row")
	ErrNoTimepoints  = errors.New("table header has no timepoint columns")
	ErrMissingColumn = errors.New("table header lacks a patient, ARG or MGE column")
)

// NameResolver maps entity names to catalog IDs.
type NameResolver interface {
	ResolveID(kind catalog.Kind, name string) (int, error)
}

// Cohorts maps patient IDs to their disease label.
type Cohorts map[int]string

// Labels returns the distinct cohort labels in ascending order.
func (c Cohorts) Labels() []string {
	seen := make(map[string]struct{})
	for _, label := range c {
		seen[label] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Stats counts what happened to the rows of one table.
type Stats struct {
	Rows       int
	Records    int
	Present    int
	Unresolved int
	Malformed  int
	Bytes      int64
}

// Table is the result of reading one input.
type Table struct {
	Records    []graph.Record
	Cohorts    Cohorts
	Timepoints []graph.Timepoint
	Stats      Stats
}

type layout struct {
	patient, disease, arg, mge int
	timepoints                 map[int]graph.Timepoint
	width                      int
}

func parseHeader(header []string) (layout, error) {
	l := layout{patient: -1, disease: -1, arg: -1, mge: -1, timepoints: make(map[int]graph.Timepoint)}
	for i, col := range header {
		name := strings.TrimSpace(col)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		switch strings.ToLower(name) {
		case "patient", "patient_id", "individual":
			l.patient = i
		case "disease", "disease_type":
			l.disease = i
		case "arg":
			l.arg = i
		case "mge":
			l.mge = i
		default:
			if tp, err := graph.ParseTimepoint(name); err == nil {
				l.timepoints[i] = tp
			}
		}
	}

	if l.patient < 0 && l.arg < 0 && l.mge < 0 && len(header) >= 4 {
		// unnamed leading columns: Patient, Disease, ARG, MGE
		l.patient, l.disease, l.arg, l.mge = 0, 1, 2, 3
	}
	if l.patient < 0 || l.arg < 0 || l.mge < 0 {
		return l, ErrMissingColumn
	}
	if len(l.timepoints) == 0 {
		return l, ErrNoTimepoints
	}
	for _, idx := range []int{l.patient, l.arg, l.mge} {
		if idx+1 > l.width {
			l.width = idx + 1
		}
	}
	return l, nil
}

func (l layout) sortedTimepoints() []graph.Timepoint {
	out := make([]graph.Timepoint, 0, len(l.timepoints))
	for _, tp := range l.timepoints {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (l layout) columns() []int {
	out := make([]int, 0, len(l.timepoints))
	for idx := range l.timepoints {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// IsPresent reports whether a cell marks an observation.
func IsPresent(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "1", "2":
		return true
	}
	return false
}

// Reader turns presence tables into records.
type Reader struct {
	res    NameResolver
	logger logging.Logger
}

// NewReader creates a Reader resolving names through res. A nil logger
// discards output.
func NewReader(res NameResolver, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reader{res: res, logger: logger.With(logging.Component("ingest"))}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Read consumes src. Rows whose names do not resolve, or whose patient ID
// is not a non-negative integer, are skipped and counted; only header and
// I/O problems return an error.
func (r *Reader) Read(src io.Reader) (*Table, error) {
	counter := &countingReader{r: src}
	cr := csv.NewReader(counter)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	l, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	table := &Table{Cohorts: make(Cohorts), Timepoints: l.sortedTimepoints()}
	columns := l.columns()

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", table.Stats.Rows+1, err)
		}
		table.Stats.Rows++
		r.readRow(table, l, columns, row)
	}

	table.Stats.Bytes = counter.n
	r.logger.Info("table read",
		logging.Int("rows", table.Stats.Rows),
		logging.Int("records", table.Stats.Records),
		logging.Int("unresolved", table.Stats.Unresolved),
		logging.Int("malformed", table.Stats.Malformed),
		logging.Int("patients", len(table.Cohorts)))
	return table, nil
}

func (r *Reader) readRow(table *Table, l layout, columns []int, row []string) {
	line := table.Stats.Rows + 1
	if len(row) < l.width {
		table.Stats.Malformed++
		r.logger.Warn("short row", logging.Int("line", line), logging.Int("fields", len(row)))
		return
	}

	patient, err := strconv.Atoi(strings.TrimSpace(row[l.patient]))
	if err != nil || patient < 0 {
		table.Stats.Malformed++
		r.logger.Warn("bad patient id", logging.Int("line", line), logging.String("value", row[l.patient]))
		return
	}

	argName := strings.TrimSpace(row[l.arg])
	mgeName := strings.TrimSpace(row[l.mge])
	argID, argErr := r.res.ResolveID(catalog.KindARG, argName)
	mgeID, mgeErr := r.res.ResolveID(catalog.KindMGE, mgeName)
	if argErr != nil || mgeErr != nil {
		table.Stats.Unresolved++
		r.logger.Debug("unresolved row", logging.Int("line", line),
			logging.String("arg", argName), logging.String("mge", mgeName))
		return
	}

	if l.disease >= 0 && l.disease < len(row) {
		if label := strings.TrimSpace(row[l.disease]); label != "" {
			table.Cohorts[patient] = label
		}
	}

	for _, idx := range columns {
		if idx >= len(row) {
			break
		}
		rec := graph.Record{
			PatientID: patient,
			ARGID:     argID,
			MGEID:     mgeID,
			Timepoint: l.timepoints[idx],
			Present:   IsPresent(row[idx]),
		}
		if err := validation.ValidateRecord(rec); err != nil {
			table.Stats.Malformed++
			r.logger.Warn("invalid record", logging.Int("line", line), logging.Error(err))
			continue
		}
		table.Records = append(table.Records, rec)
		table.Stats.Records++
		if rec.Present {
			table.Stats.Present++
		}
	}
}
