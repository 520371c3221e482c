package graph

import (
	"errors"
	"testing"
)

func TestParseTimepoint(t *testing.T) {
	tests := []struct {
		in      string
		want    Timepoint
		wantErr bool
	}{
		{"Donor", Donor, false},
		{"PreFMT", PreFMT, false},
		{"PostFMT_0", PostFMT(0), false},
		{"PostFMT_7", PostFMT(7), false},
		{"PostFMT_180", PostFMT(180), false},
		{"PostFMT_-1", 0, true},
		{"PostFMT_", 0, true},
		{"postfmt_7", 0, true},
		{"Day7", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimepoint(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimepoint) {
					t.Fatalf("err = %v, want ErrInvalidTimepoint", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestTimepointOrdering(t *testing.T) {
	ordered := []Timepoint{Donor, PreFMT, PostFMT(0), PostFMT(1), PostFMT(7), PostFMT(30)}
	for i := range ordered {
		for j := range ordered {
			if got := ordered[i].Before(ordered[j]); got != (i < j) {
				t.Errorf("%v.Before(%v) = %v", ordered[i], ordered[j], got)
			}
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := ordered[i].Compare(ordered[j]); got != want {
				t.Errorf("%v.Compare(%v) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func TestTimepointPartition(t *testing.T) {
	for _, tp := range []Timepoint{Donor, PreFMT, PostFMT(0), PostFMT(14)} {
		n := 0
		for _, f := range []bool{tp.IsDonor(), tp.IsPreFMT(), tp.IsPostFMT()} {
			if f {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%v satisfies %d of the three classes", tp, n)
		}
	}
}

func TestTimepointText(t *testing.T) {
	var tp Timepoint
	if err := tp.UnmarshalText([]byte("PostFMT_21")); err != nil {
		t.Fatal(err)
	}
	if tp != PostFMT(21) {
		t.Fatalf("got %v", tp)
	}
	text, err := tp.MarshalText()
	if err != nil || string(text) != "PostFMT_21" {
		t.Fatalf("MarshalText = %q, %v", text, err)
	}
	if err := tp.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for bogus timepoint")
	}
}

func TestPostFMTPanicsOnNegativeDay(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PostFMT(-1) did not panic")
		}
	}()
	PostFMT(-1)
}
