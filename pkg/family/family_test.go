package family

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/treeprint/pkg/errors"
)

func TestParseSex(t *testing.T) {
	tests := []struct {
		in      string
		want    Sex
		wantErr bool
	}{
		{"f", Female, false},
		{"m", Male, false},
		{"Female", Female, false},
		{" MALE ", Male, false},
		{"x", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSexJSON(t *testing.T) {
	var p Person
	if err := json.Unmarshal([]byte(`{"id":1,"name":"A","sex":"female"}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Sex != Female {
		t.Errorf("Sex = %q, want %q", p.Sex, Female)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), `"sex":"f"`) {
		t.Errorf("Marshal = %s, want sex f", out)
	}
	if strings.Contains(string(out), "parent") {
		t.Errorf("Marshal = %s, root should omit parent", out)
	}
}

func TestSampleIsValid(t *testing.T) {
	r := Sample()
	if err := r.Validate(); err != nil {
		t.Fatalf("Sample().Validate() = %v", err)
	}

	roots := 0
	for _, p := range r.Persons {
		if p.IsRoot() {
			roots++
		}
	}
	if roots != 1 {
		t.Errorf("sample roots = %d, want 1", roots)
	}
}

func TestSampleReturnsFreshCopy(t *testing.T) {
	a := Sample()
	a.Persons[0].Name = "changed"
	a.Relationships[0].Children[0] = 99

	b := Sample()
	if b.Persons[0].Name != "A" || b.Relationships[0].Children[0] != 4 {
		t.Error("Sample() shares state between calls")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Records)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Records) {},
		},
		{
			name:    "zero id",
			mutate:  func(r *Records) { r.Persons[1].ID = 0 },
			wantErr: "Persons[1].ID",
		},
		{
			name:    "bad sex",
			mutate:  func(r *Records) { r.Persons[0].Sex = "x" },
			wantErr: "Persons[0].Sex",
		},
		{
			name:    "negative parent",
			mutate:  func(r *Records) { r.Persons[2].Parent = ParentOf(-1) },
			wantErr: "Persons[2].Parent",
		},
		{
			name:    "control character in name",
			mutate:  func(r *Records) { r.Persons[0].Name = "A\nB" },
			wantErr: "Persons[0].Name",
		},
		{
			name:    "missing since",
			mutate:  func(r *Records) { r.Relationships[0].Since = "" },
			wantErr: "Relationships[0].Since",
		},
		{
			name:    "malformed till",
			mutate:  func(r *Records) { r.Relationships[0].Till = "18.05.2015" },
			wantErr: "Relationships[0].Till",
		},
		{
			name:    "ends before it starts",
			mutate:  func(r *Records) { r.Relationships[1].Till = "2001-01-01" },
			wantErr: "ends before it starts",
		},
		{
			name:    "non-positive child id",
			mutate:  func(r *Records) { r.Relationships[2].Children[1] = 0 },
			wantErr: "Relationships[2].Children[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Sample()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !apperrors.Is(err, apperrors.ErrCodeMalformedInput) {
				t.Errorf("code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeMalformedInput)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestPartnershipDates(t *testing.T) {
	r := Partnership{Since: "2010-09-20", Till: "2015-05-18"}
	if r.Ongoing() {
		t.Error("Ongoing() = true for ended relationship")
	}
	till, ok, err := r.TillDate()
	if err != nil || !ok {
		t.Fatalf("TillDate() = %v, %v, %v", till, ok, err)
	}
	if till.Year() != 2015 || till.Month() != 5 || till.Day() != 18 {
		t.Errorf("TillDate() = %v", till)
	}

	open := Partnership{Since: "2015-10-01"}
	if !open.Ongoing() {
		t.Error("Ongoing() = false for open relationship")
	}
	if _, ok, err := open.TillDate(); ok || err != nil {
		t.Errorf("TillDate() on open relationship = %v, %v", ok, err)
	}
	if since, err := open.SinceDate(); err != nil || since.Year() != 2015 {
		t.Errorf("SinceDate() = %v, %v", since, err)
	}
}

func TestClone(t *testing.T) {
	a := Sample()
	b := a.Clone()
	*b.Persons[1].Parent = 42
	b.Relationships[1].Children[0] = 42

	if *a.Persons[1].Parent != 1 {
		t.Error("Clone shares parent pointers")
	}
	if a.Relationships[1].Children[0] != 2 {
		t.Error("Clone shares child slices")
	}
}
