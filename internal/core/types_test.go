package core

import "testing"

func TestNamespace_String(t *testing.T) {
	if NamespaceArticles.String() != "A" {
		t.Errorf("expected A, got %s", NamespaceArticles.String())
	}
	if NamespaceLegacyArticles.String() != "0" {
		t.Errorf("expected 0, got %s", NamespaceLegacyArticles.String())
	}
}

func TestParseNamespace(t *testing.T) {
	tests := []struct {
		in      string
		want    Namespace
		wantErr bool
	}{
		{"A", NamespaceArticles, false},
		{"0", NamespaceLegacyArticles, false},
		{"Meta", NamespaceMetadata, false},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseNamespace(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNamespace(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNamespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArticle_PathAndLen(t *testing.T) {
	a := &Article{Namespace: NamespaceArticles, URL: "Home", Data: []byte("hello")}
	if a.Path() != "/A/Home" {
		t.Errorf("expected /A/Home, got %s", a.Path())
	}
	if a.Len() != 5 {
		t.Errorf("expected length 5, got %d", a.Len())
	}
	if !a.IsValid() {
		t.Error("expected article to be valid")
	}
}

func TestArticle_IsValid(t *testing.T) {
	if (&Article{URL: "Home"}).IsValid() {
		t.Error("article without namespace should be invalid")
	}
	if (&Article{Namespace: NamespaceArticles}).IsValid() {
		t.Error("article without url should be invalid")
	}
}
