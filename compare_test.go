package atto

import "testing"

func TestEqualFold(t *testing.T) {
	buf := []byte("DiV")
	if !equalFold(buf, 0, 3, "div") {
		t.Errorf("equalFold(%q, \"div\") = false, want true", buf)
	}
	if equalFold(buf, 0, 3, "dip") {
		t.Errorf("equalFold(%q, \"dip\") = true, want false", buf)
	}
	if equalFold(buf, 0, 2, "di") != true {
		t.Errorf("equalFold over a shorter length should still match the prefix")
	}
}

func TestEqualExact(t *testing.T) {
	buf := []byte("DiV")
	if equalExact(buf, 0, 3, "div") {
		t.Errorf("equalExact(%q, \"div\") = true, want false (case differs)", buf)
	}
	if !equalExact(buf, 0, 3, "DiV") {
		t.Errorf("equalExact(%q, \"DiV\") = false, want true", buf)
	}
}

func TestAsciiLower(t *testing.T) {
	cases := map[byte]byte{'A': 'a', 'Z': 'z', 'a': 'a', '5': '5', '-': '-'}
	for in, want := range cases {
		if got := asciiLower(in); got != want {
			t.Errorf("asciiLower(%q) = %q, want %q", in, got, want)
		}
	}
}
