package pkg

import (
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "vea" {
		t.Errorf("Expected Name to be %q, got %q", "vea", Name)
	}
}

func TestDescription(t *testing.T) {
	if !strings.HasPrefix(Description, "VeaScript compiler") {
		t.Errorf("unexpected Description %q", Description)
	}
}

func TestVersion(t *testing.T) {
	// Tests run in the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if Version != string(buf) {
		t.Errorf("Expected Version to be %q, got %q", buf, Version)
	}

	if strings.TrimSpace(Version) == "" {
		t.Error("Version is empty")
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}
