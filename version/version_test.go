package version

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		build    string
		expected string
	}{
		{build: "", expected: "1.2.3"},
		{build: "abc-123", expected: "1.2.3-abc-123"},
		{build: "dirty tree", expected: "1.2.3"},
		{build: "v1.0", expected: "1.2.3"},
	}
	for _, test := range tests {
		result := format(1, 2, 3, test.build)
		if result != test.expected {
			t.Errorf("format with build %q: expected %s, got %s", test.build, test.expected, result)
		}
	}
}
