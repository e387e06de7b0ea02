package vendors

import "testing"

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, blobDir, want string
	}{
		{"", "projects/abc/index.html", "projects/abc/index.html"},
		{"", "/projects/abc/index.html", "projects/abc/index.html"},
		{"", "a/../b.html", "b.html"},
		{"imports", "abc/index.html", "imports/abc/index.html"},
		{"imports/", "/abc/index.html", "imports/abc/index.html"},
	}
	for _, tt := range tests {
		if got := objectKey(tt.prefix, tt.blobDir); got != tt.want {
			t.Errorf("objectKey(%q, %q) = %q, want %q", tt.prefix, tt.blobDir, got, tt.want)
		}
	}
}

func TestNewOSSBlobStore_RequiresConfig(t *testing.T) {
	if _, err := NewOSSBlobStore(OSSConfig{}); err == nil {
		t.Error("expected error for empty config")
	}
	if _, err := NewOSSBlobStore(OSSConfig{Region: "cn-beijing", Bucket: "b"}); err == nil {
		t.Error("expected error without credentials")
	}
}
