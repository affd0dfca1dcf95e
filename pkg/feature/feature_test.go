package feature

import "testing"

func TestReadingKeySortsSubkeys(t *testing.T) {
	a := Reading{Values: map[string]string{"b": "2", "a": "1"}}
	b := Reading{Values: map[string]string{"a": "1", "b": "2"}}
	if a.key() != b.key() {
		t.Errorf("two Readings with the same values in different map iteration order should key identically: %q vs %q", a.key(), b.key())
	}
}

func TestDomainSetAddContainsLen(t *testing.T) {
	d := NewDomainSet()
	r1 := Reading{Values: map[string]string{"x": "1"}}
	r2 := Reading{Values: map[string]string{"x": "2"}}

	if d.Contains(r1) {
		t.Fatal("a fresh DomainSet should not contain anything yet")
	}
	d.Add(r1)
	if !d.Contains(r1) {
		t.Error("DomainSet should contain a Reading after Add")
	}
	if d.Contains(r2) {
		t.Error("DomainSet should not report a distinct Reading as contained")
	}
	d.Add(r1) // duplicate add
	d.Add(r2)
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2 distinct readings", d.Len())
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"on_a_b":     "on_a_b",
		"on(a,b)":    "on_a_b_",
		"rover-0":    "rover_0",
		"":           "",
		"A1_z":       "A1_z",
	}
	for in, want := range cases {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
