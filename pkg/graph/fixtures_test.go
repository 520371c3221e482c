package graph

import (
	"testing"

	"github.com/dd0wney/conet/pkg/catalog"
)

// testCatalog holds ARGs 10..13 and MGEs 20..22. ARG 12 needs SNP
// confirmation and ARG 13 is a metal resistance gene.
func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.ARG{
			{ID: 10, Name: "tetM", Class: catalog.ClassDrugs, Group: "Tetracyclines"},
			{ID: 11, Name: "ermB", Class: catalog.ClassDrugs, Group: "MLS"},
			{ID: 12, Name: "gyrA", Class: catalog.ClassDrugs, Group: "Fluoroquinolones", RequiresSNPConfirmation: true},
			{ID: 13, Name: "merA", Class: "Metals", Group: "Mercury"},
		},
		[]catalog.MGE{
			{ID: 20, Name: "Tn916", Label: "Tn916", Group: "ICE"},
			{ID: 21, Name: "IS26", Label: "IS26", Group: "IS"},
			{ID: 22, Name: "pUC", Label: "pUC", Group: "Plasmid"},
		},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

var testTimepoints = []Timepoint{Donor, PreFMT, PostFMT(0), PostFMT(7), PostFMT(30)}

// decodeRecord turns a small integer into a present record over the test
// catalog's drug ARGs (10, 11), MGEs (20..22), patients 1..3 and
// testTimepoints.
func decodeRecord(n int) Record {
	tp := testTimepoints[n%len(testTimepoints)]
	n /= len(testTimepoints)
	patient := 1 + n%3
	n /= 3
	mge := 20 + n%3
	n /= 3
	arg := 10 + n%2
	return Record{PatientID: patient, ARGID: arg, MGEID: mge, Timepoint: tp, Present: true}
}

const recordSpace = 5 * 3 * 3 * 2

func buildFrom(t testing.TB, codes []int, strategy TemporalStrategy) *Graph {
	t.Helper()
	b := NewBuilder(testCatalog(t), BuildOptions{}, nil)
	for _, c := range codes {
		b.Add(decodeRecord(c))
	}
	return b.Finish(strategy)
}
