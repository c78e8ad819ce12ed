package docbuilder

// Notes:
// - All generators use a fixed clock so dates and output are deterministic.
// - Assertions check fragments rather than whole documents; layouts are
//   free to change whitespace.

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var fixedTime = time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func floatPtr64(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func newTestGenerator(t *testing.T, opts ...GeneratorOption) *Generator {
	t.Helper()
	g, err := NewGenerator(append([]GeneratorOption{WithClock(fixedClock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

func generate(t *testing.T, g *Generator, meta Metadata) string {
	t.Helper()
	out, err := g.Generate(context.Background(), meta)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return out
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, got)
		}
	}
}

func assertNotContains(t *testing.T, got string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(got, u) {
			t.Errorf("output unexpectedly contains %q\ngot:\n%s", u, got)
		}
	}
}

// mockBackend records the request and returns a canned result.
type mockBackend struct {
	Result string
	Err    error
	Got    ComposeRequest
}

func (m *mockBackend) Compose(_ context.Context, req ComposeRequest) (string, error) {
	m.Got = req
	return m.Result, m.Err
}

// ---------------------------------------------------------------------------
// Layouts
// ---------------------------------------------------------------------------

func TestGenerate_HebrewQuoteWithPrice(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	out := generate(t, g, Metadata{
		DocType:             DocTypeQuote,
		Language:            Hebrew,
		ClientName:          "אקמי בע״מ",
		ClientContactPerson: "דנה",
		Subject:             "אתר חדש",
		PriceAmount:         floatPtr64(10000),
	})

	assertContains(t, out,
		`dir="rtl"`,
		"<h1>הצעת מחיר</h1>",
		"7.3.2025",
		"אקמי בע״מ",
		"דנה",
		"להלן הצעת המחיר עבור אתר חדש:",
		"₪10,000",
		"₪1,800",
		"₪11,800",
		"מע״מ (18%)",
		"סה״כ לתשלום",
		"הצעה זו בתוקף ל-30 יום מתאריך הנפקתה.",
		"צוות ORTAM AI",
	)
}

func TestGenerate_EnglishQuote(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	out := generate(t, g, Metadata{
		DocType:     DocTypeQuote,
		Language:    English,
		ClientName:  "Acme",
		PriceAmount: floatPtr64(2500.5),
	})

	assertContains(t, out,
		`dir="ltr"`,
		"<h1>Price Quotation</h1>",
		"3/7/2025",
		"the requested services",
		"VAT (18%)",
		"₪2,500.5",
		"₪450.09",
		"₪2,950.59",
		"ORTAM AI Team",
	)
}

func TestGenerate_PriceVisibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta Metadata
	}{
		{"no price", Metadata{DocType: DocTypeQuote, Language: Hebrew}},
		{"zero price", Metadata{DocType: DocTypeQuote, Language: Hebrew, PriceAmount: floatPtr64(0)}},
		{"hidden price", Metadata{DocType: DocTypeQuote, Language: Hebrew, PriceAmount: floatPtr64(10000), ShowPrice: boolPtr(false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := generate(t, newTestGenerator(t), tt.meta)
			assertNotContains(t, out, "₪", "<table", "תמחור")
			assertContains(t, out, "השירותים המבוקשים")
		})
	}
}

func TestGenerate_FallbackLayout(t *testing.T) {
	t.Parallel()

	t.Run("template-less kind uses generic layout", func(t *testing.T) {
		t.Parallel()

		out := generate(t, newTestGenerator(t), Metadata{
			DocType:  DocTypeCourseBrief,
			Language: Hebrew,
			Subject:  "קורס בינה מלאכותית",
		})
		assertContains(t, out,
			"<h1>בריף קורס חדש</h1>",
			"<h2>קורס בינה מלאכותית</h2>",
			"תוכן המסמך יופק כאן.",
		)
	})

	t.Run("hebrew-only kind in english uses generic layout", func(t *testing.T) {
		t.Parallel()

		out := generate(t, newTestGenerator(t), Metadata{
			DocType:    DocTypeMarketerAgreement,
			Language:   English,
			ClientName: "Bob",
		})
		assertContains(t, out,
			"<h1>הסכם משווק</h1>",
			"Date:",
			"To:",
			"Document content will be generated here.",
		)
		assertNotContains(t, out, "הסכם שיווק")
	})

	t.Run("unknown doc type is accepted", func(t *testing.T) {
		t.Parallel()

		out := generate(t, newTestGenerator(t), Metadata{DocType: "Invoice", Language: English})
		assertContains(t, out, "<h1>Invoice</h1>")
	})

	t.Run("unknown language renders left to right", func(t *testing.T) {
		t.Parallel()

		out := generate(t, newTestGenerator(t), Metadata{DocType: DocTypeQuote, Language: Language("fr")})
		assertContains(t, out, `dir="ltr"`, "Price Quotation", "3/7/2025")
	})
}

func TestGenerate_MarketerAndLetter(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)

	marketer := generate(t, g, Metadata{
		DocType:    DocTypeMarketerAgreement,
		Language:   Hebrew,
		ClientName: "משווק בע״מ",
		UserPrompt: "עמלה של **10%**",
	})
	assertContains(t, marketer,
		"<h1>הסכם שיווק</h1>",
		"שם המשווק:",
		"תחומי אחריות",
		"תנאים מיוחדים",
		"<strong>10%</strong>",
	)

	letter := generate(t, g, Metadata{
		DocType:  DocTypeOfficialLetter,
		Language: Hebrew,
		Sender:   "יוסי כהן",
	})
	assertContains(t, letter,
		"<h1>מכתב רשמי</h1>",
		"בהתייחס לנושא שבכותרת",
		"בכבוד רב,",
		"<p>יוסי כהן</p>",
	)
}

func TestGenerate_MissingOptionalFields(t *testing.T) {
	t.Parallel()

	for _, dt := range DocumentTypes {
		for _, lang := range []Language{Hebrew, English} {
			t.Run(dt+"/"+string(lang), func(t *testing.T) {
				t.Parallel()

				out := generate(t, newTestGenerator(t), Metadata{DocType: dt, Language: lang})
				assertNotContains(t, out, "<strong>לכבוד:</strong>", "<strong>To:</strong>", "<no value>")
			})
		}
	}
}

// ---------------------------------------------------------------------------
// Escaping and free text
// ---------------------------------------------------------------------------

func TestGenerate_EscapesFields(t *testing.T) {
	t.Parallel()

	out := generate(t, newTestGenerator(t), Metadata{
		DocType:    DocTypeQuote,
		Language:   English,
		ClientName: `<script>alert("x")</script>`,
		Subject:    "Tom & Jerry",
	})

	assertNotContains(t, out, "<script>")
	assertContains(t, out, "&lt;script&gt;", "Tom &amp; Jerry")
}

func TestGenerate_UserPromptMarkdown(t *testing.T) {
	t.Parallel()

	out := generate(t, newTestGenerator(t), Metadata{
		DocType:    DocTypeQuote,
		Language:   English,
		UserPrompt: "Deliver **fast**\n\n- one\n- two\n\n<img src=x onerror=alert(1)>",
	})

	assertContains(t, out, "Additional Details", "<strong>fast</strong>", "<li>one</li>")
	assertNotContains(t, out, "<img", "onerror")
}

// ---------------------------------------------------------------------------
// Determinism and errors
// ---------------------------------------------------------------------------

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	meta := Metadata{
		DocType:     DocTypeQuote,
		Language:    Hebrew,
		ClientName:  "Acme",
		PriceAmount: floatPtr64(1234.56),
		UserPrompt:  "hello",
	}

	first := generate(t, newTestGenerator(t), meta)
	second := generate(t, newTestGenerator(t), meta)
	if first != second {
		t.Errorf("output differs between runs:\n%s\n---\n%s", first, second)
	}
}

func TestGenerate_MissingDocType(t *testing.T) {
	t.Parallel()

	_, err := newTestGenerator(t).Generate(context.Background(), Metadata{Language: Hebrew})
	if !errors.Is(err, ErrMissingDocType) {
		t.Errorf("Generate() error = %v, want ErrMissingDocType", err)
	}
}

func TestGenerate_PriceOutOfRange(t *testing.T) {
	t.Parallel()

	price := 6e15
	meta := Metadata{DocType: DocTypeQuote, Language: Hebrew, PriceAmount: &price}
	_, err := newTestGenerator(t).Generate(context.Background(), meta)
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("Generate() error = %v, want ErrInvalidPrice", err)
	}
	if _, ok := meta.Price(); ok {
		t.Error("Price() ok = true for out-of-range amount")
	}
}

func TestGenerate_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(t).Generate(ctx, Metadata{DocType: DocTypeQuote})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_Backend(t *testing.T) {
	t.Parallel()

	t.Run("request carries derived values", func(t *testing.T) {
		t.Parallel()

		mock := &mockBackend{Result: "<p>llm</p>"}
		g := newTestGenerator(t, WithBackend(mock), WithBrand(Brand{Name: "Acme Corp"}))

		out := generate(t, g, Metadata{DocType: DocTypeQuote, Language: Hebrew, PriceAmount: floatPtr64(100)})
		if out != "<p>llm</p>" {
			t.Errorf("Generate() = %q, want backend result", out)
		}
		if mock.Got.DocType.Kind != KindQuote {
			t.Errorf("DocType.Kind = %v, want quote", mock.Got.DocType.Kind)
		}
		if mock.Got.Price == nil || mock.Got.Price.Total != MoneyFromFloat(118) {
			t.Errorf("Price = %+v, want total 118", mock.Got.Price)
		}
		if !mock.Got.Date.Equal(fixedTime) {
			t.Errorf("Date = %v, want %v", mock.Got.Date, fixedTime)
		}
		assertContains(t, mock.Got.Prompt, "Acme Corp", "הצעת מחיר")
	})

	t.Run("backend error is wrapped", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("quota exceeded")
		g := newTestGenerator(t, WithBackend(&mockBackend{Err: cause}))

		_, err := g.Generate(context.Background(), Metadata{DocType: DocTypeQuote})
		if !errors.Is(err, ErrGeneration) {
			t.Errorf("error = %v, want ErrGeneration", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("error = %v, want cause preserved", err)
		}
	})
}

func TestNewGenerator_TemplateLoadError(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(WithGeneratorAssets(&failingLoader{}))
	if !errors.Is(err, ErrTemplateLoad) {
		t.Errorf("NewGenerator() error = %v, want ErrTemplateLoad", err)
	}
}

func TestGenerate_PackageLevel(t *testing.T) {
	t.Parallel()

	out, err := Generate(Metadata{DocType: DocTypeOfficialLetter, Language: Hebrew})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	assertContains(t, out, "מכתב רשמי")
}

// failingLoader returns an error for every asset.
type failingLoader struct{}

func (failingLoader) LoadStyle(string) (string, error)    { return "", errors.New("no styles") }
func (failingLoader) LoadTemplate(string) (string, error) { return "", errors.New("no templates") }
