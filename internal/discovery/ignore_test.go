package discovery

import "testing"

func TestIgnoreFilter_DefaultPatterns(t *testing.T) {
	f := NewIgnoreFilter(nil)

	cases := map[string]bool{
		".git/config":               true,
		"target/classes/Foo.class":  true,
		"src/main/java/Main.java":   false,
		"build/libs/app.jar":        true,
		"node_modules/pkg/index.js": true,
	}

	for path, wantIgnored := range cases {
		if got := f.IsIgnored(path); got != wantIgnored {
			t.Errorf("IsIgnored(%q) = %v, want %v", path, got, wantIgnored)
		}
	}
}

func TestIgnoreFilter_ExtraPatterns(t *testing.T) {
	f := NewIgnoreFilter([]string{"vendor/**", "*.generated.go"})

	if !f.IsIgnored("vendor/lib/x.go") {
		t.Error("expected vendor/** to be ignored")
	}
	if !f.IsIgnored("foo.generated.go") {
		t.Error("expected *.generated.go to be ignored by basename match")
	}
	if f.IsIgnored("src/Main.java") {
		t.Error("did not expect src/Main.java to be ignored")
	}
}
