package merging

import (
	"reflect"
	"testing"

	"github.com/nadernamini/rna-seq-read-algn/common"
)

func TestMergeContiguous(t *testing.T) {
	cases := []struct {
		name string
		in   common.Alignment
		want common.Alignment
	}{
		{
			name: "empty",
			in:   nil,
			want: common.Alignment{},
		},
		{
			name: "single piece unchanged",
			in:   common.Alignment{{ReadStart: 0, RefStart: 100, Length: 20}},
			want: common.Alignment{{ReadStart: 0, RefStart: 100, Length: 20}},
		},
		{
			name: "adjacent on read and genome",
			in: common.Alignment{
				{ReadStart: 0, RefStart: 100, Length: 20},
				{ReadStart: 20, RefStart: 120, Length: 15},
			},
			want: common.Alignment{{ReadStart: 0, RefStart: 100, Length: 35}},
		},
		{
			name: "intron gap kept apart",
			in: common.Alignment{
				{ReadStart: 0, RefStart: 100, Length: 20},
				{ReadStart: 20, RefStart: 240, Length: 15},
			},
			want: common.Alignment{
				{ReadStart: 0, RefStart: 100, Length: 20},
				{ReadStart: 20, RefStart: 240, Length: 15},
			},
		},
		{
			name: "adjacent on read only",
			in: common.Alignment{
				{ReadStart: 0, RefStart: 100, Length: 20},
				{ReadStart: 20, RefStart: 121, Length: 15},
			},
			want: common.Alignment{
				{ReadStart: 0, RefStart: 100, Length: 20},
				{ReadStart: 20, RefStart: 121, Length: 15},
			},
		},
		{
			name: "chain of three collapses",
			in: common.Alignment{
				{ReadStart: 0, RefStart: 100, Length: 10},
				{ReadStart: 10, RefStart: 110, Length: 10},
				{ReadStart: 20, RefStart: 120, Length: 10},
			},
			want: common.Alignment{{ReadStart: 0, RefStart: 100, Length: 30}},
		},
	}
	for _, c := range cases {
		got := MergeContiguous(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: MergeContiguous = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMergeContiguousDoesNotMutateInput(t *testing.T) {
	in := common.Alignment{
		{ReadStart: 0, RefStart: 100, Length: 10},
		{ReadStart: 10, RefStart: 110, Length: 10},
	}
	snapshot := append(common.Alignment(nil), in...)
	MergeContiguous(in)
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestEnforceOrder(t *testing.T) {
	in := common.Alignment{
		{ReadStart: 0, RefStart: 100, Length: 20},
		{ReadStart: 15, RefStart: 300, Length: 20}, // overlaps the first on the read
		{ReadStart: 20, RefStart: 400, Length: 10},
	}
	got := EnforceOrder(in)
	want := common.Alignment{
		{ReadStart: 0, RefStart: 100, Length: 20},
		{ReadStart: 20, RefStart: 400, Length: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EnforceOrder = %v, want %v", got, want)
	}
	if !got.Consistent() {
		t.Fatalf("result not consistent: %v", got)
	}
}

func TestEnforceOrderKeepsConsistentInput(t *testing.T) {
	in := common.Alignment{
		{ReadStart: 0, RefStart: 100, Length: 20},
		{ReadStart: 20, RefStart: 240, Length: 15},
	}
	got := EnforceOrder(in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("EnforceOrder changed a consistent alignment: %v", got)
	}
}
