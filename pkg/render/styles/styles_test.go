package styles

import (
	"testing"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/tree"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", NameClassic, false},
		{"classic", NameClassic, false},
		{"simple", NameSimple, false},
		{"handdrawn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.name)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidStyle) {
					t.Errorf("Lookup error = %v, want INVALID_STYLE", err)
				}
				return
			}
			if err != nil || s.Name != tt.want {
				t.Errorf("Lookup = %q, %v, want %q", s.Name, err, tt.want)
			}
		})
	}
}

func TestClassicBox(t *testing.T) {
	s := Classic()

	tests := []struct {
		sex  string
		fill string
	}{
		{"f", "#F5B8DB"},
		{"m", "#9FD5EB"},
		{"", s.Fallback.Fill},
	}
	for _, tt := range tests {
		n := &tree.Node{Sex: family.Sex(tt.sex)}
		if got := s.Box(n).Fill; got != tt.fill {
			t.Errorf("Box(%q).Fill = %s, want %s", tt.sex, got, tt.fill)
		}
	}
	if s.Background != "#F2EEE4" {
		t.Errorf("Background = %s", s.Background)
	}
}

func TestSimpleBoxIgnoresSex(t *testing.T) {
	s := Simple()
	f := s.Box(&tree.Node{Sex: "f"})
	m := s.Box(&tree.Node{Sex: "m"})
	if f != m {
		t.Errorf("simple palette distinguishes sexes: %+v vs %+v", f, m)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != NameClassic || names[1] != NameSimple {
		t.Errorf("Names() = %v", names)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`Anne <"Nan"> & Co`); got != "Anne &lt;&#34;Nan&#34;&gt; &amp; Co" {
		t.Errorf("EscapeXML = %s", got)
	}
}
