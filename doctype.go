package docbuilder

// DocKind identifies which content layout a document type uses.
type DocKind int

// Document kinds with a dedicated layout. Every other document type is
// KindOther and uses the generic layout.
const (
	KindOther DocKind = iota
	KindQuote
	KindMarketerAgreement
	KindOfficialLetter
)

// Document type names as they are stored and shown to users.
const (
	DocTypeQuote              = "הצעת מחיר"
	DocTypeMarketerAgreement  = "הסכם משווק"
	DocTypeOfficialLetter     = "מכתב רשמי"
	DocTypeResellerAgreement  = "הסכם ריסלר"
	DocTypeAffiliateAgreement = "הסכם אפיליאט"
	DocTypeCourseBrief        = "בריף קורס חדש"
	DocTypeTrainingPlan       = "תכנית הכשרה מקצועית"
	DocTypePaymentDemand      = "דרישת תשלום"
	DocTypeAuto               = "Auto"
)

// DocumentTypes lists the document types offered when creating a document.
var DocumentTypes = []string{
	DocTypeQuote,
	DocTypeMarketerAgreement,
	DocTypeResellerAgreement,
	DocTypeAffiliateAgreement,
	DocTypeCourseBrief,
	DocTypeTrainingPlan,
	DocTypePaymentDemand,
	DocTypeOfficialLetter,
	DocTypeAuto,
}

// DocType is a parsed document type: its kind plus the name as given.
type DocType struct {
	Kind DocKind
	Name string
}

// ParseDocType maps a document type name to its kind by exact match.
func ParseDocType(name string) DocType {
	kind := KindOther
	switch name {
	case DocTypeQuote:
		kind = KindQuote
	case DocTypeMarketerAgreement:
		kind = KindMarketerAgreement
	case DocTypeOfficialLetter:
		kind = KindOfficialLetter
	}
	return DocType{Kind: kind, Name: name}
}

// String returns a stable label for logs and metrics.
func (k DocKind) String() string {
	switch k {
	case KindQuote:
		return "quote"
	case KindMarketerAgreement:
		return "marketer_agreement"
	case KindOfficialLetter:
		return "official_letter"
	default:
		return "other"
	}
}
