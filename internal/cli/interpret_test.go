package cli

import (
	"reflect"
	"testing"
)

func TestParseIntListEmptyStringYieldsNil(t *testing.T) {
	got, err := parseIntList("")
	if err != nil {
		t.Fatalf("parseIntList: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestParseIntListParsesCommaSeparatedValues(t *testing.T) {
	got, err := parseIntList(" 1, 2,3 ")
	if err != nil {
		t.Fatalf("parseIntList: %v", err)
	}
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseIntListRejectsNonInteger(t *testing.T) {
	if _, err := parseIntList("1,x,3"); err == nil {
		t.Fatal("expected error for non-integer element")
	}
}
