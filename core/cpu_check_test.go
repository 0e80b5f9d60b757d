package core

import (
	"strings"
	"testing"
)

func TestCPUFeatures(t *testing.T) {
	feats := CPUFeatures()
	if feats == "" {
		t.Fatalf("CPUFeatures() returned an empty string")
	}
	for _, f := range strings.Split(feats, ",") {
		if f == "" {
			t.Errorf("CPUFeatures() = %q; has an empty entry", feats)
		}
	}
}
