package mood

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	got := Extract("Sono stanco, voglio qualcosa di rilassante e casual per giocare con gli amici")
	want := []string{"stanco", "rilassante", "sociale", "casual"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestExtractTagsCappedAndOrdered(t *testing.T) {
	got := extractTags("puzzle, racing! rpg action fun cute party puzzle")
	want := []string{"puzzle", "racing", "rpg", "action", "fun"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extractTags = %v, want %v", got, want)
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract("ciao"); len(got) != 0 {
		t.Fatalf("expected no signals, got %v", got)
	}
}

func TestInstructionsDeduplicated(t *testing.T) {
	got := Instructions([]string{"stanco", "stressato", "rilassante", "casual"})
	if len(got) != 2 {
		t.Fatalf("expected two distinct guidelines, got %v", got)
	}
}
