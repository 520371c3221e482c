package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(
		[]ARG{
			{ID: 1, Name: "tetQ", Class: ClassDrugs, Group: "Tetracyclines"},
			{ID: 2, Name: "merA", Class: "Metals", Group: "Mercury"},
			{ID: 3, Name: "gyrA", Class: ClassDrugs, Group: "Fluoroquinolones", RequiresSNPConfirmation: true},
		},
		[]MGE{
			{ID: 10, Name: "IS26_transposase", Label: "IS26", Group: "IS"},
			{ID: 11, Name: "Tn916", Group: "transposon"},
		},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestResolveID(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		name    string
		kind    Kind
		input   string
		want    int
		wantErr error
	}{
		{"arg", KindARG, "tetQ", 1, nil},
		{"mge", KindMGE, "Tn916", 11, nil},
		{"case sensitive", KindARG, "TETQ", 0, ErrNotFound},
		{"wrong kind", KindMGE, "tetQ", 0, ErrNotFound},
		{"bad kind", Kind(9), "tetQ", 0, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ResolveID(tt.kind, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ResolveID = %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}

func TestResolveNameUnknown(t *testing.T) {
	c := testCatalog(t)

	if got := c.ResolveName(KindARG, 99); got != "Unknown ARG ID 99" {
		t.Errorf("got %q", got)
	}
	if got := c.MGEName(42); got != "Unknown MGE ID 42" {
		t.Errorf("got %q", got)
	}
	if got := c.ARGName(1); got != "tetQ" {
		t.Errorf("got %q", got)
	}
}

func TestAuxiliaryLookups(t *testing.T) {
	c := testCatalog(t)

	if got := c.ResistanceClass(2); got != "Metals" {
		t.Errorf("ResistanceClass = %q", got)
	}
	if !c.RequiresSNPConfirmation(3) || c.RequiresSNPConfirmation(1) {
		t.Error("SNP flags wrong")
	}
	if got := c.MGELabel(10); got != "IS26" {
		t.Errorf("MGELabel = %q", got)
	}
	if got := c.MGELabel(11); got != "Tn916" {
		t.Errorf("MGELabel fallback = %q", got)
	}
	if got := c.MGEGroup(11); got != "transposon" {
		t.Errorf("MGEGroup = %q", got)
	}
	if got := c.MGEGroup(500); got != "Unknown" {
		t.Errorf("MGEGroup unknown = %q", got)
	}
	if got := c.ARGIDs(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("ARGIDs = %v", got)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]ARG{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}, nil)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id: err = %v", err)
	}
	_, err = New(nil, []MGE{{ID: 1, Name: "x"}, {ID: 2, Name: "x"}})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate name: err = %v", err)
	}
	_, err = New([]ARG{{ID: -1, Name: "neg"}}, nil)
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("negative id: err = %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	input := `kind,id,name,class,group,label,snp
ARG,1,tetQ,Drugs,Tetracyclines,,0
ARG,2,gyrA,Drugs,Fluoroquinolones,,1
MGE,5,IS26_transposase,,IS,IS26,
`
	c, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if !c.RequiresSNPConfirmation(2) {
		t.Error("gyrA should require SNP confirmation")
	}
	if id, err := c.ResolveID(KindMGE, "IS26_transposase"); err != nil || id != 5 {
		t.Errorf("ResolveID = %d, %v", id, err)
	}
	if got := c.MGELabel(5); got != "IS26" {
		t.Errorf("MGELabel = %q", got)
	}
}

func TestReadCSVByteOrderMark(t *testing.T) {
	c, err := ReadCSV(strings.NewReader("\ufeffKind,ID,Name\nmge,5,IS26\naRg,1,tetQ\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if args, mges := c.Len(); args != 1 || mges != 1 {
		t.Errorf("Len = %d, %d, want 1, 1", args, mges)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"ARG", KindARG, false},
		{"aRG", KindARG, false},
		{"mge", KindMGE, false},
		{"mGe", KindMGE, false},
		{"plasmid", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownKind) {
				t.Errorf("ParseKind(%q) err = %v, want ErrUnknownKind", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("kind,name\nARG,tetQ\n"))
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("err = %v, want ErrInvalidEntry", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `args:
  - {id: 1, name: tetQ, class: Drugs, group: Tetracyclines}
mges:
  - {id: 7, name: Tn916, group: transposon}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if args, mges := c.Len(); args != 1 || mges != 1 {
		t.Errorf("Len = %d, %d", args, mges)
	}

	if _, err := LoadFile(filepath.Join(dir, "catalog.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
