package docbuilder

import "testing"

func TestParseDocType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantKind DocKind
	}{
		{DocTypeQuote, KindQuote},
		{DocTypeMarketerAgreement, KindMarketerAgreement},
		{DocTypeOfficialLetter, KindOfficialLetter},
		{DocTypeResellerAgreement, KindOther},
		{DocTypeAffiliateAgreement, KindOther},
		{DocTypeCourseBrief, KindOther},
		{DocTypeTrainingPlan, KindOther},
		{DocTypePaymentDemand, KindOther},
		{DocTypeAuto, KindOther},
		{"הצעת מחיר ", KindOther}, // exact match only
		{"Quote", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseDocType(tt.name)
			if got.Kind != tt.wantKind {
				t.Errorf("ParseDocType(%q).Kind = %v, want %v", tt.name, got.Kind, tt.wantKind)
			}
			if got.Name != tt.name {
				t.Errorf("ParseDocType(%q).Name = %q", tt.name, got.Name)
			}
		})
	}
}

func TestDocKind_String(t *testing.T) {
	t.Parallel()

	tests := map[DocKind]string{
		KindQuote:             "quote",
		KindMarketerAgreement: "marketer_agreement",
		KindOfficialLetter:    "official_letter",
		KindOther:             "other",
		DocKind(99):           "other",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("DocKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestDocumentTypes_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, name := range DocumentTypes {
		if seen[name] {
			t.Errorf("duplicate document type %q", name)
		}
		seen[name] = true
	}
	if len(DocumentTypes) != 9 {
		t.Errorf("len(DocumentTypes) = %d, want 9", len(DocumentTypes))
	}
}
