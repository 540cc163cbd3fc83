package pathref

import (
	"path/filepath"
	"testing"

	fsutil "github.com/kk-code-lab/pathnav/internal/fs"
)

func TestRealKeepsTrailingSeparator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/proj/", "/proj/"},
		{"/proj", "/proj"},
		{"/proj//src/../", "/proj/"},
		{"/", "/"},
		{"", ""},
	}
	for _, tt := range tests {
		in := filepath.FromSlash(tt.in)
		want := filepath.FromSlash(tt.want)
		if got := Real(in).String(); got != want {
			t.Errorf("Real(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCurrentDirectoryAndFilter(t *testing.T) {
	tests := []struct {
		name       string
		path       Path
		wantDir    string
		wantFilter string
	}{
		{"directory form", Real("/proj/src/"), "/proj/src/", ""},
		{"filter form", Real("/proj/src/ReadMe"), "/proj/src/", "readme"},
		{"filesystem root", Real("/"), "/", ""},
		{"virtual root", VirtualRoot(), VirtualRootPrefix, ""},
		{"virtual filter", virtualWithFilter("Pr"), VirtualRootPrefix, "pr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantDir := tt.wantDir
			if !tt.path.IsVirtual() {
				wantDir = filepath.FromSlash(wantDir)
			}
			if got := tt.path.CurrentDirectory().String(); got != wantDir {
				t.Errorf("CurrentDirectory() = %q, want %q", got, wantDir)
			}
			if got := tt.path.CurrentFilter(); got != tt.wantFilter {
				t.Errorf("CurrentFilter() = %q, want %q", got, tt.wantFilter)
			}
		})
	}
}

func TestEqualIgnoresCachedType(t *testing.T) {
	a := Real("/proj/")
	b := Real("/proj/").WithType(fsutil.TypeDirectory)
	if !a.Equal(b) || a.Key() != b.Key() {
		t.Fatalf("paths with different cached types should be equal")
	}
	if a.Equal(Real("/proj")) {
		t.Fatalf("directory and filter forms must differ")
	}
}

func TestTrailingSeparatorConversions(t *testing.T) {
	p := Real(filepath.FromSlash("/proj/src"))
	dir := p.WithTrailingSeparator()
	if !dir.HasTrailingSeparator() {
		t.Fatalf("expected directory form, got %q", dir)
	}
	if back := dir.WithoutTrailingSeparator(); !back.Equal(p) {
		t.Fatalf("round trip = %q, want %q", back, p)
	}

	root := Real(separator)
	if got := root.WithoutTrailingSeparator(); !got.Equal(root) {
		t.Fatalf("filesystem root should keep its separator, got %q", got)
	}
	if !VirtualRoot().HasTrailingSeparator() {
		t.Fatalf("virtual root is a directory form")
	}
	if virtualWithFilter("x").HasTrailingSeparator() {
		t.Fatalf("virtual filter is not a directory form")
	}
}
