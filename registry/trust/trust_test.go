package trust

import (
	"strings"
	"testing"
)

func TestTrustLevelOrdering(t *testing.T) {
	if !(TrustLocal < TrustCommunity) {
		t.Error("Local should be below Community")
	}
	if !(TrustCommunity < TrustVerified) {
		t.Error("Community should be below Verified")
	}
	if !(TrustVerified < TrustOfficial) {
		t.Error("Verified should be below Official")
	}
}

func TestTrustLevelStringRoundTrip(t *testing.T) {
	for _, level := range []TrustLevel{TrustLocal, TrustCommunity, TrustVerified, TrustOfficial} {
		parsed, err := ParseTrustLevel(level.String())
		if err != nil {
			t.Fatalf("ParseTrustLevel(%q) error = %v", level, err)
		}
		if parsed != level {
			t.Errorf("ParseTrustLevel(%q) = %v, want %v", level, parsed, level)
		}
	}
}

func TestParseTrustLevelUnknown(t *testing.T) {
	if _, err := ParseTrustLevel("supreme"); err == nil {
		t.Error("ParseTrustLevel() expected error for unknown level")
	}
}

func TestVerificationResultString(t *testing.T) {
	result := VerificationResult{
		Valid:      true,
		KeyID:      "release-key",
		TrustLevel: TrustVerified,
		Timestamp:  "2026-01-01T00:00:00Z",
	}

	s := result.String()
	if !strings.Contains(s, "VALID") {
		t.Errorf("String() = %q, want VALID marker", s)
	}
	if !strings.Contains(s, "release-key") {
		t.Errorf("String() = %q, want key ID", s)
	}
	if !strings.Contains(s, "verified") {
		t.Errorf("String() = %q, want trust level", s)
	}
}
