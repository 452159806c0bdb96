package prompt

import "testing"

func TestFormatTemplate(t *testing.T) {
	result, err := FormatTemplate("Check out {name} for {price}!", map[string]string{
		"name":  "Mug",
		"price": "$12",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Check out Mug for $12!" {
		t.Fatalf("unexpected result: %s", result)
	}
}

func TestFormatTemplateEscapedBraces(t *testing.T) {
	result, err := FormatTemplate("literal {{braces}} and {value}", map[string]string{"value": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "literal {braces} and x" {
		t.Fatalf("unexpected result: %s", result)
	}
}

func TestFormatTemplateMissingValue(t *testing.T) {
	if _, err := FormatTemplate("{missing}", map[string]string{}); err == nil {
		t.Fatalf("expected error for missing value")
	}
}

func TestFormatTemplateUnbalanced(t *testing.T) {
	if _, err := FormatTemplate("{oops", nil); err == nil {
		t.Fatalf("expected error for missing close brace")
	}
	if _, err := FormatTemplate("oops}", nil); err == nil {
		t.Fatalf("expected error for stray close brace")
	}
}
