package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Timepoint is a sampling point in an FMT course. Donor and PreFMT are
// sentinels that sort before every post-FMT day; post-FMT days are the
// non-negative integers in natural order.
type Timepoint int

const (
	// Donor is the donor stool sample, logically before everything else.
	Donor Timepoint = -2
	// PreFMT is the recipient's sample taken before transplant.
	PreFMT Timepoint = -1
)

const postFMTPrefix = "PostFMT_"

// PostFMT returns the timepoint for the given day after transplant.
// It panics on a negative day; use ParseTimepoint for untrusted input.
func PostFMT(day int) Timepoint {
	if day < 0 {
		panic(fmt.Sprintf("graph: negative post-FMT day %d", day))
	}
	return Timepoint(day)
}

// ParseTimepoint accepts "Donor", "PreFMT" and "PostFMT_<day>".
func ParseTimepoint(s string) (Timepoint, error) {
	switch s {
	case "Donor":
		return Donor, nil
	case "PreFMT":
		return PreFMT, nil
	}
	if rest, ok := strings.CutPrefix(s, postFMTPrefix); ok {
		day, err := strconv.Atoi(rest)
		if err != nil || day < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimepoint, s)
		}
		return Timepoint(day), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimepoint, s)
}

// Valid reports whether t is Donor, PreFMT or a non-negative day.
func (t Timepoint) Valid() bool {
	return t >= Donor
}

func (t Timepoint) IsDonor() bool   { return t == Donor }
func (t Timepoint) IsPreFMT() bool  { return t == PreFMT }
func (t Timepoint) IsPostFMT() bool { return t >= 0 }

// Day returns the post-FMT day, or false for the sentinels.
func (t Timepoint) Day() (int, bool) {
	if t.IsPostFMT() {
		return int(t), true
	}
	return 0, false
}

// Before reports whether t is strictly earlier than o.
func (t Timepoint) Before(o Timepoint) bool {
	return t < o
}

// Compare returns -1, 0 or +1 in chronological order.
func (t Timepoint) Compare(o Timepoint) int {
	switch {
	case t < o:
		return -1
	case t > o:
		return 1
	}
	return 0
}

func (t Timepoint) String() string {
	switch {
	case t == Donor:
		return "Donor"
	case t == PreFMT:
		return "PreFMT"
	case t.IsPostFMT():
		return postFMTPrefix + strconv.Itoa(int(t))
	}
	return fmt.Sprintf("Timepoint(%d)", int(t))
}

// MarshalText renders the timepoint as its column header form.
func (t Timepoint) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimepoint, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Timepoint) UnmarshalText(text []byte) error {
	parsed, err := ParseTimepoint(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
